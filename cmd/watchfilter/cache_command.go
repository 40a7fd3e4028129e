package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// The availability cache is process-local, so this command is most useful
// against the API; locally it reports the freshly built cache.
func newCacheCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show availability cache settings and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			status := runtime.Service.CacheStatus(false)
			if ctx.jsonOutput() {
				return writeJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Entries", "Hits", "Misses", "Stale", "TTL"},
				[][]string{{
					strconv.Itoa(status.Entries),
					strconv.FormatUint(status.Hits, 10),
					strconv.FormatUint(status.Misses, 10),
					strconv.FormatUint(status.Stale, 10),
					runtime.Cache.TTL().String(),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}
}
