package main

import (
	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <src> <dst>",
		Short: "Rename or move a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vfs.Rename(vfs.Path(args[0]), vfs.Path(args[1]))
		},
	}
}
