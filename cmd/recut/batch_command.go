package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recut/internal/refine"
	"recut/internal/services"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		sourcePath string
		outDir     string
		jobs       int
	)

	cmd := &cobra.Command{
		Use:   "batch <edit>...",
		Short: "Run several edits against one source transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			src, err := readSource(sourcePath)
			if err != nil {
				return err
			}

			edits := make([]refine.Edit, len(args))
			for i, path := range args {
				data, err := readInput("edit", path)
				if err != nil {
					return err
				}
				if edits[i], err = refine.DecodeEdit(data); err != nil {
					return err
				}
			}

			if strings.TrimSpace(outDir) != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return services.Wrap(services.ErrConfiguration, "cli", "batch", "Failed to create output directory", err)
				}
			}

			refiner := refine.New(refine.OptionsFromConfig(cfg), logger, ctx.recorder)
			items, err := refiner.RunBatch(cmd.Context(), src.words, edits, jobs)
			if err != nil {
				return err
			}

			var failures []error
			views := make([]batchView, len(items))
			for i, item := range items {
				views[i] = batchView{Edit: args[i], Result: item.Result}
				if item.Err != nil {
					views[i].Error = item.Err.Error()
					failures = append(failures, fmt.Errorf("%s: %w", args[i], item.Err))
					continue
				}
				if outDir != "" {
					base := strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i]))
					path := filepath.Join(outDir, base+"."+cfg.Captions.Format)
					if _, err := writeCaptionFile(cfg, path, item.Result.Captions); err != nil {
						return err
					}
					views[i].Captions = path
				}
			}

			if format != outputTable {
				if err := writeStructured(cmd, format, views); err != nil {
					return err
				}
			} else {
				printBatch(cmd, views)
			}
			return errors.Join(failures...)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source transcript (words JSON)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Maximum passes run concurrently")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write one caption file per edit into this directory")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

type batchView struct {
	Edit     string        `json:"edit"`
	Result   refine.Result `json:"result"`
	Captions string        `json:"captions,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func printBatch(cmd *cobra.Command, views []batchView) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		status := "ok"
		if v.Error != "" {
			status = "failed"
		}
		rows = append(rows, []string{
			v.Edit,
			status,
			strconv.Itoa(len(v.Result.Ranges)),
			strconv.Itoa(len(v.Result.Captions)),
			seconds(v.Result.OutputDuration),
			fmt.Sprintf("%.1f%%", v.Result.Coverage*100),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Edit", "Status", "Ranges", "Cues", "Output", "Coverage"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
}
