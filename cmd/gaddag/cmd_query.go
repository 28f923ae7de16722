package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milden6/gaddag"
)

func newQueryCmd(c *cli) *cobra.Command {
	var indexPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "query (contains|starts|ends|substring|hooks) QUERY",
		Short: "Run one query against an index file",
		Long: `Run one query against an index file. An empty QUERY ("") is allowed
for the enumerating kinds and matches every word.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"contains", "starts", "ends", "substring", "hooks"},
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := gaddag.Load(indexPath)
			if err != nil {
				return err
			}
			return runQuery(cmd, idx, args[0], args[1], limit)
		},
	}
	cmd.Flags().StringVar(&indexPath, "index", "", "index file")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many words (0 for all)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func runQuery(cmd *cobra.Command, idx *gaddag.Index, op, query string, limit int) error {
	out := cmd.OutOrStdout()

	switch op {
	case "contains":
		found, err := idx.Contains(query)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, found)
		return nil

	case "hooks":
		front, err := idx.FrontHooks(query)
		if err != nil {
			return err
		}
		back, err := idx.BackHooks(query)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "front: %s\nback: %s\n", front, back)
		return nil
	}

	kind, err := gaddag.ParseKind(op)
	if err != nil {
		return err
	}
	words, truncated, err := idx.Lookup(kind, query, limit)
	if err != nil {
		return err
	}
	for _, word := range words {
		fmt.Fprintln(out, word)
	}
	if truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "(stopped after %d words)\n", len(words))
	}
	return nil
}
