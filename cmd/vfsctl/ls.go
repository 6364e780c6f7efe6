package main

import (
	"fmt"

	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List a directory's immediate entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := vfs.OpenDirectory(vfs.Path(args[0]))
			if err != nil {
				return err
			}
			entries, err := vfs.ReadDirAll(it)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Println(e.Path.Filename())
			}
			return nil
		},
	}
}
