package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recut/internal/captions"
	"recut/internal/refine"
	"recut/internal/services"
	"recut/internal/timeline"
	"recut/internal/transcript"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var (
		sourcePath string
		rangesPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "captions",
		Short: "Build captions for an existing set of keep ranges",
		Long: `Compress the given keep ranges into an output timeline, retime the
source words onto it, and segment them into captions.

The ranges file is a JSON array of {"start","end"} objects or a pass result
carrying a "ranges" field.`,
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
			data, err := readInput("ranges", rangesPath)
			if err != nil {
				return err
			}
			ranges, err := decodeRanges(data)
			if err != nil {
				return err
			}

			opts := refine.OptionsFromConfig(cfg)
			mappings := timeline.Compress(ranges)
			retimer := timeline.Retimer{Tolerance: opts.RetimeTolerance, MinWordDuration: opts.MinWord}
			words := retimer.Retime(src.words, mappings)
			cues := captions.NewSegmenter(opts.Captions).Segment(words)
			ctx.recorder.RecordCues(len(cues))

			if strings.TrimSpace(outPath) != "" {
				if _, err := writeCaptionFile(cfg, outPath, cues); err != nil {
					return err
				}
			}

			if format != outputTable {
				return writeStructured(cmd, format, cues)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cues: %d over %ss\n", len(cues), seconds(timeline.OutputDuration(mappings)))
			if len(cues) > 0 {
				fmt.Fprintln(out, renderCueTable(cues))
			}
			if outPath != "" {
				fmt.Fprintf(out, "Captions written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source transcript (words JSON)")
	cmd.Flags().StringVarP(&rangesPath, "ranges", "r", "", "Keep ranges JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "Write captions to this .srt or .vtt file")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("ranges")
	return cmd
}

func decodeRanges(data []byte) ([]transcript.TimeRange, error) {
	trimmed := bytes.TrimSpace(data)
	var ranges []transcript.TimeRange
	var err error
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &ranges)
	} else {
		var wrapper struct {
			Ranges []transcript.TimeRange `json:"ranges"`
		}
		err = json.Unmarshal(trimmed, &wrapper)
		ranges = wrapper.Ranges
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "cli", "read ranges", "Invalid ranges file", err)
	}
	for i, r := range ranges {
		if r.End <= r.Start {
			return nil, services.Wrap(services.ErrValidation, "cli", "read ranges",
				fmt.Sprintf("Range %d ends at %s before it starts at %s", i+1, seconds(r.End), seconds(r.Start)), nil)
		}
	}
	return ranges, nil
}
