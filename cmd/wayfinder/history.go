package main

import (
	"fmt"
	"time"
	"wayfinder/internal/history"
	"wayfinder/internal/ui"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently journaled routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			journal, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(entries)
			}
			if len(entries) == 0 {
				ui.Subtle.Fprintln(ui.Out, "  No routes recorded")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.RecordedAt.Local().Format(time.DateTime),
					e.Goal,
					e.Water,
					fmt.Sprintf("%.3f", e.Cost),
					ui.Route(e.Nodes, cfg.Graph.WaterPrefix),
				}
			}
			ui.Table([]string{"time", "goal", "water", "cost", "route"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of routes to show")

	return cmd
}
