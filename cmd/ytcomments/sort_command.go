package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"ytcomments/internal/logging"
	"ytcomments/internal/sorter"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string
	var delimiterFlag string
	var skipEmpty bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a delimited file by its first column, keeping the header first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := resolvePathFlag(inputFlag, cfg.Sorter.Input)
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			output, err := resolvePathFlag(outputFlag, cfg.Sorter.Output)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if input == output {
				return errors.New("sort input and output must be different files")
			}

			delimiter := cfg.DelimiterRune()
			if cmd.Flags().Changed("delimiter") {
				if utf8.RuneCountInString(delimiterFlag) != 1 {
					return fmt.Errorf("--delimiter must be a single character, got %q", delimiterFlag)
				}
				delimiter, _ = utf8.DecodeRuneInString(delimiterFlag)
				if delimiter == '"' || delimiter == '\r' || delimiter == '\n' {
					return fmt.Errorf("--delimiter %q is not allowed", delimiterFlag)
				}
			}

			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}

			result, err := sorter.SortFile(input, output, sorter.Options{
				Delimiter:     delimiter,
				SkipEmptyRows: skipEmpty || cfg.Sorter.SkipEmptyRows,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			if ctx.jsonMode() {
				return writeJSON(cmd, map[string]any{
					"input":   input,
					"output":  output,
					"rows":    result.Rows,
					"skipped": result.Skipped,
				})
			}
			logger.Debug("sort finished", logging.Int("rows", result.Rows), logging.Int("skipped", result.Skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "Sorting complete! Check '%s'.\n", displayPath(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input file (default sorter.input)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default sorter.output)")
	cmd.Flags().StringVarP(&delimiterFlag, "delimiter", "d", "", "Field delimiter (default sorter.delimiter)")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Drop blank rows instead of failing")
	return cmd
}
