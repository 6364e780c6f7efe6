package main

import (
	"fmt"

	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newPwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Print the current working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(vfs.CurrentPath())
			return nil
		},
	}
}
