package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <query...>",
		Short: "Ask the librarian model for three books matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("Query is required")
			}
			recs, err := c.api.GetRecommendations(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(c.out, "No recommendations.")
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(c.out, "%d. %s by %s (%.0f%% match)\n", r.Ordinal+1, r.Title, r.Author, r.Confidence*100)
				if r.Reason != "" {
					fmt.Fprintf(c.out, "   %s\n", r.Reason)
				}
			}
			return nil
		},
	}
}
