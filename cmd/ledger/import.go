package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/toxiguard/internal/history"
)

var importBatch int

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Replay a legacy history snapshot into the durable store",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().IntVar(&importBatch, "batch-size", 0, "entries per batch (defaults to history.import_batch_size)")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var entries []history.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %w", history.ErrInvalidImport, err)
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	size := importBatch
	if size <= 0 {
		size = l.cfg.History.ImportBatchSize
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(cmd.ErrOrStderr()) }),
	)

	var total history.ImportResult
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		total.Add(l.ImportStored(cmd.Context(), entries[start:end]))
		bar.Add(end - start)
	}

	if _, err := l.Export(cmd.Context()); err != nil {
		return fmt.Errorf("export after import: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, failed %d\n",
		total.Imported, total.Skipped, total.Failed)
	return nil
}
