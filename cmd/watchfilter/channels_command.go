package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "channels [query]",
		Short: "List streaming channels for the configured region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			resp, err := runtime.Service.Channels(cmd.Context(), kind, query)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(resp.Channels) == 0 {
				fmt.Fprintln(out, "No channels found")
				return nil
			}
			rows := make([][]string, 0, len(resp.Channels))
			for _, ch := range resp.Channels {
				rows = append(rows, []string{strconv.FormatInt(ch.ID, 10), ch.Name})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Channel"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
				shouldColorize(out),
			))
			fmt.Fprintf(out, "%d channels in %s\n", len(resp.Channels), strings.ToUpper(resp.Region))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Restrict to movie or tv providers")
	return cmd
}
