package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytcomments/internal/config"
	"ytcomments/internal/deps"
	"ytcomments/internal/preflight"
)

type statusReport struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
	History      bool               `json:"history_enabled"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check yt-dlp availability and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				ConfigPath:   ctx.configPath,
				ConfigExists: ctx.configSeen,
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Checks:       preflight.RunAll(cmd.Context(), cfg),
				History:      cfg.History.Enabled,
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			lines := renderStatusReport(cfg, report, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func renderStatusReport(cfg *config.Config, report statusReport, colorize bool) []string {
	var lines []string

	lines = append(lines, renderSectionHeader("Configuration", colorize)...)
	configDetail := report.ConfigPath
	configKind := statusOK
	if !report.ConfigExists {
		configDetail += " (not found, using defaults)"
		configKind = statusInfo
	}
	lines = append(lines, renderStatusLine("Config", configKind, configDetail, colorize))
	historyDetail := "Disabled"
	if report.History {
		historyDetail = cfg.History.Path
	}
	lines = append(lines, renderStatusLine("History", statusInfo, historyDetail, colorize))
	lines = append(lines, "")

	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	for _, dep := range report.Dependencies {
		switch {
		case dep.Available && dep.Version != "":
			lines = append(lines, renderStatusLine(dep.Name, statusOK, fmt.Sprintf("%s (%s)", dep.Version, dep.Path), colorize))
		case dep.Available:
			lines = append(lines, renderStatusLine(dep.Name, statusWarn, dep.Detail, colorize))
		case dep.Optional:
			lines = append(lines, renderStatusLine(dep.Name, statusWarn, dep.Detail, colorize))
		default:
			lines = append(lines, renderStatusLine(dep.Name, statusError, dep.Detail, colorize))
		}
	}
	lines = append(lines, "")

	lines = append(lines, renderSectionHeader("Paths", colorize)...)
	for _, check := range report.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
	lines = append(lines, renderStatusLine("Delay", statusInfo, cfg.Delay().String(), colorize))
	lines = append(lines, renderStatusLine("Normalize text", statusInfo, yesNo(cfg.Collector.NormalizeText), colorize))
	return lines
}
