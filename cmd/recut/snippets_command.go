package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recut/internal/speakers"
	"recut/internal/transcript"
)

func newSnippetsCommand(ctx *commandContext) *cobra.Command {
	var (
		sourcePath string
		duration   float64
	)

	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Pick a representative speaking window for each speaker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			src, err := readSource(sourcePath)
			if err != nil {
				return err
			}
			total := duration
			if total <= 0 {
				total = transcript.TotalDuration(src.words)
			}
			snippets := speakers.ExtractSnippets(src.words, total, snippetOptions(cfg))

			if format != outputTable {
				return writeStructured(cmd, format, snippets)
			}
			out := cmd.OutOrStdout()
			if len(snippets) == 0 {
				fmt.Fprintln(out, "No speakers found")
				return nil
			}
			rows := make([][]string, 0, len(snippets))
			for _, s := range snippets {
				rows = append(rows, []string{
					s.ID,
					s.Label,
					seconds(s.Start),
					seconds(s.End),
					strconv.FormatFloat(s.Duration(), 'f', 1, 64),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Speaker", "Label", "Start", "End", "Seconds"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source transcript (words JSON)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Source media duration in seconds (default: last word end)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
