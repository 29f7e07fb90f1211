package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grocery-sorter/internal/classifier"
	"grocery-sorter/internal/logging"
	"grocery-sorter/internal/sheet"
	"grocery-sorter/internal/vocabulary"
)

type options struct {
	vocabularyFile string
	catchAll       string
	asJSON         bool
	dumpVocabulary bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sorter [items...]",
		Short: "Group a shopping list by category",
		Long: `sorter groups grocery items into categories by keyword.

Items are taken from the arguments, or from stdin when there are none.
Commas and newlines separate items.`,
		Example: `  sorter "молоко, хлеб, яблоко"
  cat list.txt | sorter --json
  sorter --dump-vocabulary > vocab.yaml`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.vocabularyFile, "vocabulary", "", "YAML vocabulary file (default: built-in)")
	cmd.Flags().StringVar(&opts.catchAll, "catch-all", "", "name of the bucket for unmatched items")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the grouping as a JSON object")
	cmd.Flags().BoolVar(&opts.dumpVocabulary, "dump-vocabulary", false, "print the vocabulary in use as YAML and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	return cmd
}

func runSort(cmd *cobra.Command, args []string, opts *options) error {
	level := zapcore.WarnLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	vocab := vocabulary.Default()
	if opts.vocabularyFile != "" {
		if vocab, err = vocabulary.Load(opts.vocabularyFile); err != nil {
			return err
		}
	}
	if opts.catchAll != "" {
		vocab.CatchAll = opts.catchAll
	}

	c, err := vocab.Classifier()
	if err != nil {
		return err
	}
	logger.Debug("vocabulary loaded",
		zap.Strings("categories", vocab.Categories.Names()),
		zap.String("catch_all", c.CatchAll()),
	)

	if opts.dumpVocabulary {
		return vocab.Encode(cmd.OutOrStdout())
	}

	text := strings.Join(args, "\n")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	s := sheet.New(c)
	s.SetText(text)
	if !s.CanSort() {
		logger.Debug("nothing to sort")
	}
	result := s.Sort(text)

	return render(cmd.OutOrStdout(), result, opts.asJSON)
}

func render(w io.Writer, result classifier.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for i, g := range result.Groups() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", g.Category)
		for _, item := range g.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	return nil
}
