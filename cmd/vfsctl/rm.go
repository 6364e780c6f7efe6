package main

import (
	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file, or a directory tree with -r",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := vfs.Path(args[0])
			if recursive {
				_, err := vfs.RemoveAll(path)
				return err
			}
			_, err := vfs.Remove(path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their contents recursively")
	return cmd
}
