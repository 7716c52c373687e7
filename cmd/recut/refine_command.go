package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recut/internal/exchange"
	"recut/internal/refine"
	"recut/internal/transcript"
)

func newRefineCommand(ctx *commandContext) *cobra.Command {
	var (
		sourcePath    string
		editPath      string
		captionsPath  string
		exportPath    string
		facesPath     string
		duration      float64
		splitSpeakers bool
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Map an edit back onto the source transcript",
		Long: `Run one refinement pass: align the edit against the source transcript,
repair clipped sentence openings, build keep ranges, compress the timeline,
and segment captions.

The edit file holds either {"trimmed_words": [...]}, {"trimmed_text": "..."},
or plain text.`,
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
			editData, err := readInput("edit", editPath)
			if err != nil {
				return err
			}
			edit, err := refine.DecodeEdit(editData)
			if err != nil {
				return err
			}

			opts := refine.OptionsFromConfig(cfg)
			if cmd.Flags().Changed("split-speakers") {
				opts.SplitSpeakers = splitSpeakers
			}
			opts.TotalDuration = duration

			result, cached, err := ctx.runPass(cmd.Context(), src, edit, opts, !noCache)
			if err != nil {
				if errors.Is(err, refine.ErrNoClips) {
					fmt.Fprintln(cmd.ErrOrStderr(), "No clips generated: nothing in the edit matched the source transcript")
				}
				return err
			}

			if strings.TrimSpace(captionsPath) != "" {
				if _, err := writeCaptionFile(cfg, captionsPath, result.Captions); err != nil {
					return err
				}
			}
			if strings.TrimSpace(exportPath) != "" {
				faces, err := loadFaces(facesPath)
				if err != nil {
					return err
				}
				doc := buildDocument(cfg, src, &result, faces, duration)
				if err := exchange.Export(exportPath, doc, time.Now()); err != nil {
					return err
				}
			}

			if format != outputTable {
				return writeStructured(cmd, format, result)
			}
			printPassSummary(cmd.OutOrStdout(), result, cached)
			if captionsPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Captions written to %s\n", captionsPath)
			}
			if exportPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Pass exported to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source transcript (words JSON)")
	cmd.Flags().StringVarP(&editPath, "edit", "e", "", "Edit payload (trimmed words, trimmed text, or plain text)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Source media duration in seconds (default: last word end)")
	cmd.Flags().BoolVar(&splitSpeakers, "split-speakers", false, "Split keep ranges at speaker changes")
	cmd.Flags().StringVar(&captionsPath, "captions", "", "Write captions to this .srt or .vtt file")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write a pass document to this path")
	cmd.Flags().StringVar(&facesPath, "faces", "", "Face detection JSON merged into the exported document")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the pass cache")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("edit")
	return cmd
}

func printPassSummary(out io.Writer, result refine.Result, cached bool) {
	passLabel := result.PassID
	if cached {
		passLabel += " (cached)"
	}
	fmt.Fprintf(out, "Pass:      %s\n", passLabel)
	fmt.Fprintf(out, "Mode:      %s\n", result.Mode)
	fmt.Fprintf(out, "Kept:      %d ranges, %ss output\n", len(result.Ranges), seconds(result.OutputDuration))
	if result.Mode == refine.ModeText {
		fmt.Fprintf(out, "Misses:    %d\n", len(result.Misses))
		if result.Extension != "" {
			fmt.Fprintf(out, "Extension: %s (%d words prepended)\n", result.Extension, result.Prepended)
		}
	}
	if result.DroppedRanges > 0 {
		fmt.Fprintf(out, "Dropped:   %d ranges\n", result.DroppedRanges)
	}
	fmt.Fprintf(out, "Coverage:  %.1f%%\n", result.Coverage*100)

	if len(result.Mappings) > 0 {
		tableRows := make([][]string, 0, len(result.Mappings))
		for i, m := range result.Mappings {
			tableRows = append(tableRows, []string{
				strconv.Itoa(i + 1),
				seconds(m.Start),
				seconds(m.End),
				seconds(m.TimelineStart),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Source Start", "Source End", "Output Start"},
			tableRows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
		))
	}
	if len(result.Captions) > 0 {
		fmt.Fprintln(out, renderCueTable(result.Captions))
	}
}

func renderCueTable(cues []transcript.CaptionCue) string {
	rows := make([][]string, 0, len(cues))
	for i, cue := range cues {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			seconds(cue.Start),
			seconds(cue.End()),
			truncate(cue.Text, 60),
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}
