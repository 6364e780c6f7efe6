package main

import (
	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newCpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vfs.Copy(vfs.Path(args[0]), vfs.Path(args[1]))
		},
	}
}
