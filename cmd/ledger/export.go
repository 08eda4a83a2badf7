package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/toxiguard/pkg/formatting"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate the snapshot from the durable store",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "also copy the snapshot to this file (- for stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	records, err := l.Export(cmd.Context())
	if err != nil {
		return err
	}
	l.logger.Info("snapshot regenerated", "records", len(records), "key", l.cfg.History.SnapshotKey)

	if exportOut == "" {
		return nil
	}

	data, err := l.Raw(cmd.Context())
	if err != nil {
		return err
	}

	if exportOut == "-" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return err
	}
	l.logger.Info("snapshot copied", "path", exportOut, "size", formatting.FormatBytes(int64(len(data)), 1))
	return nil
}
