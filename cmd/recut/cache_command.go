package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const shortKeyLength = 12

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the pass cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if format != outputTable {
				return writeStructured(cmd, format, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cached passes: none")
				return nil
			}
			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				key := entry.Key
				if len(key) > shortKeyLength {
					key = key[:shortKeyLength]
				}
				rows = append(rows, []string{
					key,
					entry.Mode,
					strconv.Itoa(entry.Ranges),
					strconv.Itoa(entry.Cues),
					seconds(entry.OutputSeconds),
					entry.UpdatedAt.Local().Format(stampLayout),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Key", "Mode", "Ranges", "Cues", "Output", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show a cached pass by key or key prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			_, result, err := store.FindPass(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format != outputTable {
				return writeStructured(cmd, format, result)
			}
			printPassSummary(cmd.OutOrStdout(), result, true)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached pass and assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache already empty")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries from %s\n", removed, store.Path())
			return nil
		},
	}
}
