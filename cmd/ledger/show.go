package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/pkg/formatting"
)

var (
	showPrediction string
	showSearch     string
	showLimit      int
	showJSON       bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored records newest first without touching the snapshot",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPrediction, "prediction", "", "filter by label (toxic|neutral)")
	showCmd.Flags().StringVar(&showSearch, "search", "", "case-insensitive text filter")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 20, "maximum records (0 for all)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print entries as JSON")
}

func runShow(cmd *cobra.Command, _ []string) error {
	filters := history.Filters{Limit: showLimit}
	if showPrediction != "" {
		label, err := classifier.ParseLabel(showPrediction)
		if err != nil {
			return err
		}
		filters.Label = &label
	}
	if showSearch != "" {
		filters.Search = &showSearch
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	total, err := l.Count(cmd.Context(), filters)
	if err != nil {
		return err
	}

	records, err := l.ListStored(cmd.Context(), filters)
	if err != nil {
		return err
	}
	entries := history.Entries(records, l.Location())

	if showJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tPREDICTION\tTEXT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp, e.Prediction, formatting.Truncate(e.Text, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records\n", len(entries), total)
	return nil
}
