package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/milden6/gaddag"
	"github.com/milden6/gaddag/internal/wordlist"
)

func newBuildCmd(c *cli) *cobra.Command {
	var wordsPath, outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a word list into an index file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.build(cmd, wordsPath, outPath)
		},
	}
	cmd.Flags().StringVar(&wordsPath, "words", "", "word list, one word per line")
	cmd.Flags().StringVar(&outPath, "out", "", "index file to write")
	_ = cmd.MarkFlagRequired("words")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (c *cli) build(cmd *cobra.Command, wordsPath, outPath string) error {
	dict := c.cfg.Dictionary
	alphabet, err := gaddag.NewAlphabet(dict.Alphabet)
	if err != nil {
		return err
	}
	policy, err := wordlist.ParsePolicy(dict.OnInvalid)
	if err != nil {
		return err
	}

	start := time.Now()
	list, err := wordlist.ReadFile(wordsPath, wordlist.Options{
		Alphabet:      alphabet,
		MaxWordLength: dict.MaxWordLength,
		Uppercase:     dict.Uppercase,
		Policy:        policy,
	})
	if err != nil {
		return err
	}
	for _, r := range list.Rejected {
		c.logger.Warn("skipping word", "line", r.Line, "word", r.Word, "error", r.Err)
	}

	opts, err := dict.BuildOptions(c.logger)
	if err != nil {
		return err
	}
	idx, err := gaddag.Build(list.Words, opts...)
	if err != nil {
		return err
	}

	size, err := idx.Save(outPath)
	if err != nil {
		return fmt.Errorf("saving %s: %w", outPath, err)
	}

	c.logger.Info("index built",
		"out", outPath,
		"id", idx.ID(),
		"words", idx.NumWords(),
		"skipped", len(list.Rejected),
		"entries", idx.NumEntries(),
		"nodes", idx.NumNodes(),
		"edges", idx.NumEdges(),
		"bytes", size,
		"elapsed", time.Since(start))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words, %d nodes, %d edges, %d bytes\n",
		outPath, idx.NumWords(), idx.NumNodes(), idx.NumEdges(), size)
	return nil
}
