package main

import (
	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newMkdirCmd() *cobra.Command {
	var parents bool
	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory, or a chain of them with -p",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := vfs.Path(args[0])
			if parents {
				_, err := vfs.CreateDirectories(path)
				return err
			}
			_, err := vfs.CreateDirectory(path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories as needed")
	return cmd
}
