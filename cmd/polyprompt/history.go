package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/polyprompt/internal/config"
	"github.com/joss/polyprompt/internal/history"
	"github.com/joss/polyprompt/internal/render"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent dispatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.New(config.GetPaths().Data)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Print(render.New(pretty).History(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of dispatches to show")
	return cmd
}
