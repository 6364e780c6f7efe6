package main

import (
	"fmt"

	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount <root-name>",
		Short: "Mount a fresh in-memory tree at //<root-name>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := vfs.GetTree(name); ok {
				return fmt.Errorf("//%s is already mounted", name)
			}
			vfs.Mount(name, vfs.NewMemTree())
			fmt.Printf("mounted in-memory tree at //%s\n", name)
			return nil
		},
	}
}
