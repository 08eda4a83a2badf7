package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every durable record and empty the snapshot",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "confirm the reset")
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetConfirm {
		return errors.New("reset deletes all history; pass --yes to confirm")
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Reset(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "history reset")
	return nil
}
