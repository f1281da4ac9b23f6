package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmill/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent recorded batch run",
	Long: `History reads the SQLite run ledger written by "run --ledger" and prints
the counts of the most recent batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("ledger")
		if path == "" {
			return fmt.Errorf("provide --ledger with the path of the run ledger")
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("ledger %s not found: %w", path, err)
		}

		store, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		sum, finished, ok, err := store.LastRun()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("ledger is empty")
			return nil
		}

		fmt.Printf("Last run finished %s: %d converted, %d recovered, %d failed (total: %d)\n",
			finished.Format(time.RFC3339), sum.Converted, sum.Recovered, sum.Failed, sum.Total())
		return nil
	},
}

func init() {
	historyCmd.Flags().String("ledger", "", "path of the SQLite run ledger")

	rootCmd.AddCommand(historyCmd)
}
