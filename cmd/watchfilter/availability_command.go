package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"watchfilter/internal/availability"
)

func newAvailabilityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "availability <movie|tv> <id>",
		Short: "Show where a title can be watched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
			if err != nil {
				return fmt.Errorf("parse id %q: %w", args[1], err)
			}
			runtime, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			resp, err := runtime.Service.Availability(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if resp.Availability.Empty() {
				fmt.Fprintf(out, "%s %d is not available in %s\n", resp.Kind, resp.ID, resp.Region)
				return nil
			}
			rows := make([][]string, 0)
			for _, tier := range availability.AllTiers {
				for i, ch := range resp.Availability.Channels(tier) {
					rank := strconv.Itoa(i + 1)
					rows = append(rows, []string{string(tier), rank, strconv.FormatInt(ch.ID, 10), ch.Name})
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tier", "Rank", "ID", "Channel"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				shouldColorize(out),
			))
			fmt.Fprintf(out, "Region: %s  Cached: %s\n", resp.Region, yesNo(resp.Cached))
			return nil
		},
	}
}
