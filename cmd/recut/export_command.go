package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recut/internal/exchange"
	"recut/internal/services"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Inspect and package pass documents",
	}

	exportCmd.AddCommand(newExportValidateCommand(ctx))
	exportCmd.AddCommand(newExportBundleCommand(ctx))

	return exportCmd
}

func newExportValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a pass document can be resumed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			doc, err := exchange.Import(args[0])
			if err != nil {
				return err
			}
			summary := documentSummary{
				Path:       args[0],
				Version:    doc.Version,
				Words:      len(doc.Words),
				Speakers:   len(doc.SpeakerSnippets),
				Thumbnails: len(doc.Thumbnails),
				Primary:    doc.PrimarySpeaker(),
				Assigned:   len(doc.Assignment),
				ExportedAt: doc.ExportedAt,
			}
			if doc.Refinement != nil {
				summary.Ranges = len(doc.Refinement.Ranges)
				summary.Cues = len(doc.Refinement.Captions)
			}
			if format != outputTable {
				return writeStructured(cmd, format, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Document:   %s\n", summary.Path)
			fmt.Fprintf(out, "Version:    %d\n", summary.Version)
			fmt.Fprintf(out, "Words:      %d\n", summary.Words)
			fmt.Fprintf(out, "Refined:    %s (%d ranges, %d cues)\n", yesNo(doc.Refinement != nil), summary.Ranges, summary.Cues)
			fmt.Fprintf(out, "Speakers:   %d (%d assigned)\n", summary.Speakers, summary.Assigned)
			fmt.Fprintf(out, "Thumbnails: %d\n", summary.Thumbnails)
			if summary.Primary != "" {
				fmt.Fprintf(out, "Primary:    %s\n", summary.Primary)
			}
			if !summary.ExportedAt.IsZero() {
				fmt.Fprintf(out, "Exported:   %s\n", summary.ExportedAt.Format(time.RFC3339))
			}
			fmt.Fprintln(out, "Document valid")
			return nil
		},
	}
}

type documentSummary struct {
	Path       string    `json:"path"`
	Version    int       `json:"version"`
	Words      int       `json:"words"`
	Ranges     int       `json:"ranges"`
	Cues       int       `json:"cues"`
	Speakers   int       `json:"speakers"`
	Assigned   int       `json:"assigned"`
	Thumbnails int       `json:"thumbnails"`
	Primary    string    `json:"primarySpeakerId,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
}

func newExportBundleCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "bundle <file>",
		Short: "Copy a pass document and its thumbnails into one directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := exchange.Import(args[0])
			if err != nil {
				return err
			}
			target := strings.TrimSpace(dir)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				target = filepath.Join(cfg.Paths.ExportDir, base)
			}
			bundled, err := exchange.BundleThumbnails(doc, target)
			if err != nil {
				return err
			}
			docPath := filepath.Join(target, "pass.json")
			if err := exchange.Export(docPath, bundled, time.Now()); err != nil {
				return services.Wrap(services.ErrTransient, "cli", "bundle", "Failed to write bundled document", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bundled %d thumbnails into %s\n", len(bundled.Thumbnails), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Bundle directory (default: <export_dir>/<name>)")
	return cmd
}
