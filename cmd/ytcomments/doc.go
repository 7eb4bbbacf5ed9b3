// Command ytcomments collects YouTube comment text through yt-dlp and sorts
// semicolon-delimited training files.
//
// Subcommands:
//
//	collect   download comments for video IDs into a CSV (cached per video)
//	sort      sort the rows of a delimited file by their first column
//	cache     list, remove, or clear cached comment records
//	history   show past collect runs (when history.enabled is set)
//	status    check yt-dlp availability and directory access
//	config    create or validate the configuration file
//
// Configuration is read from --config, ~/.config/ytcomments/config.toml, or
// ./ytcomments.toml, in that order; defaults apply when none exists.
package main
