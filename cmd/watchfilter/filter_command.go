package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"watchfilter/internal/api"
	"watchfilter/internal/availability"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var req api.FilterRequest

	cmd := &cobra.Command{
		Use:   "filter <query>",
		Short: "Search TMDB and keep results available on a channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			req.Query = strings.Join(args, " ")
			resp, err := runtime.Service.Filter(cmd.Context(), req)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "No matching titles")
			} else {
				rows := make([][]string, 0, len(resp.Items))
				for _, item := range resp.Items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Kind,
						item.Title,
						formatYear(item.Year),
						bestChannel(item.Availability),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Kind", "Title", "Year", "Watch"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
					shouldColorize(out),
				))
			}
			summary := fmt.Sprintf("%d of %d results", resp.Matched, resp.Total)
			if resp.Channel != nil {
				summary += fmt.Sprintf(" on %s", resp.Channel.Name)
			}
			fmt.Fprintf(out, "%s (%s)\n", summary, resp.Region)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Channel, "channel", "", "Channel name or provider id to filter by")
	cmd.Flags().StringVarP(&req.Kind, "kind", "k", "", "Search only movie or tv")
	cmd.Flags().IntVarP(&req.Year, "year", "y", 0, "Release year")
	cmd.Flags().StringSliceVar(&req.Tiers, "tier", nil, "Restrict to tiers (subscription, rental, purchase)")
	return cmd
}

func formatYear(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// bestChannel names the top-ranked channel, preferring subscription over
// rental and purchase.
func bestChannel(ts *availability.TierSet) string {
	if ts == nil {
		return "unknown"
	}
	for _, tier := range availability.AllTiers {
		if ch, ok := ts.Best(tier); ok {
			return fmt.Sprintf("%s (%s)", ch.Name, tier)
		}
	}
	return "-"
}
