package main

import (
	"os"

	"github.com/photogrammetry-toolkit/govfs"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := vfs.OpenInputStream(vfs.Path(args[0]))
			defer in.Close()
			data, err := in.ReadAll()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
