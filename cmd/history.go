package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codedoc/pkg/config"
	"codedoc/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past generation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded generation runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		store, err := historyStore()
		if err != nil {
			return err
		}
		records, err := store.All()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No generation runs recorded.")
			return nil
		}

		shown := 0
		for i := len(records) - 1; i >= 0 && shown < limit; i-- {
			r := records[i]
			fmt.Printf("#%d  %s  %s  %d files  template=%s\n",
				r.ID,
				r.ProcessedAt.Format("2006-01-02 15:04"),
				r.ProjectName,
				r.FileCount,
				r.TemplateName)
			shown++
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one recorded run by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmd.Flags().GetInt64("id")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		store, err := historyStore()
		if err != nil {
			return err
		}
		if err := store.Delete(id); err != nil {
			return err
		}
		fmt.Printf("Deleted history record #%d\n", id)
		return nil
	},
}

func historyStore() (*history.Store, error) {
	cfg, err := config.Load(".", configPath, rootLogger)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.HistoryFile(), rootLogger), nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to show")
	historyDeleteCmd.Flags().Int64("id", 0, "ID of the record to delete")
	_ = historyDeleteCmd.MarkFlagRequired("id")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	RootCmd.AddCommand(historyCmd)
}
