package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolioAPI/internal/config"
	"portfolioAPI/internal/content"
	"portfolioAPI/internal/progress"
)

func calendarCmd() *cobra.Command {
	var (
		offset   int
		category string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the contribution calendar for a month as JSON",
		Long: `Build the month view from the content file and print it.

Examples:
  portfolio calendar
  portfolio calendar --offset -1
  portfolio calendar --offset -3 --category Frontend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			site, err := content.Load(cfg.ContentPath)
			if err != nil {
				return err
			}

			records := progress.FilterByCategory(site.Progress, category)
			view := progress.BuildMonthView(records, offset, time.Now().In(cfg.Location))

			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "months relative to the current month")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only count records in this category")

	return cmd
}
