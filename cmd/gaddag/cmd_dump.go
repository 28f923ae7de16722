package main

import (
	"github.com/spf13/cobra"

	"github.com/milden6/gaddag"
)

func newDumpCmd(c *cli) *cobra.Command {
	var indexPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the header and node table of an index file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := gaddag.Load(indexPath)
			if err != nil {
				return err
			}
			c.logger.Debug("loaded index", "path", indexPath, "id", idx.ID())
			idx.Dump(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&indexPath, "index", "", "index file")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}
