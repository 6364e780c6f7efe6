package main

import (
	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newCdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cd <path>",
		Short: "Change the process-wide current working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vfs.SetCurrentPath(vfs.Path(args[0]))
		},
	}
}
