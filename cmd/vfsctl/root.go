package main

import (
	"fmt"
	"os"

	"github.com/photogrammetry-toolkit/govfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vfsctl",
	Short: "Inspect and drive a govfs mount configuration from the shell",
	Long: `vfsctl mounts in-memory trees and issues filesystem operations against
them and the host OS through the same routing facade a Go program would use,
useful for poking at a mount configuration interactively.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := vfs.LogLevelFromString(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		vfs.SetLogger(vfs.NewLogger(os.Stderr, level))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main() exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", zerolog.WarnLevel.String(), "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newMountCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newCatCmd())
	rootCmd.AddCommand(newCpCmd())
	rootCmd.AddCommand(newMvCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newMkdirCmd())
	rootCmd.AddCommand(newPwdCmd())
	rootCmd.AddCommand(newCdCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vfsctl version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
