package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recut/internal/exchange"
	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/speakers"
)

func newAssignCommand(ctx *commandContext) *cobra.Command {
	var (
		exportPath string
		choose     string
		reassign   bool
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Match speakers to detected face slots",
		Long: `Walk through the speakers of an exported pass and confirm which face slot
belongs to each one. Questions are skipped whenever only one answer remains.

Answers are read from stdin, or from --choose as a comma-separated list of
slots in prompt order. The resolved assignment is written back into the pass
document and cached for the source transcript.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ctx.resolveOutput(cmd)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			choices, err := parseChoices(choose)
			if err != nil {
				return err
			}
			doc, err := exchange.Import(exportPath)
			if err != nil {
				return err
			}
			key, err := assignmentKey(doc.Words, doc.FaceSlotsBySpeaker)
			if err != nil {
				return err
			}

			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			machine, assignment := speakers.Machine{}.Begin(doc.SpeakerSnippets, doc.FaceSlotsBySpeaker)
			fromCache := false
			if !reassign && machine.State() == speakers.StateAwaitingConfirmation {
				cached, ok, err := store.GetAssignment(cmd.Context(), key)
				if err != nil {
					return err
				}
				switch {
				case ok && offersAssignment(machine, cached):
					assignment, fromCache = cached, true
				case ok:
					logger.Debug("cached assignment ignored",
						logging.String("reason", "slot no longer offered"),
						logging.String("primary_speaker", machine.Primary()),
					)
				}
			}
			if !fromCache {
				var in *bufio.Scanner
				if choices == nil {
					in = bufio.NewScanner(cmd.InOrStdin())
				}
				prompts := cmd.OutOrStdout()
				if format != outputTable {
					prompts = cmd.ErrOrStderr()
				}
				machine, err = confirmSpeakers(machine, choices, in, prompts)
				if err != nil {
					return err
				}
				assignment = machine.Assignment()
				if err := store.PutAssignment(cmd.Context(), key, assignment); err != nil {
					return err
				}
			}

			doc.Assignment = assignment
			doc.SetPrimarySpeaker(machine.Primary())
			if err := exchange.Export(exportPath, doc, time.Now()); err != nil {
				return err
			}
			logger.Info("speaker assignment resolved",
				logging.Int("speakers", len(assignment)),
				logging.Bool("from_cache", fromCache),
				logging.String("primary_speaker", machine.Primary()),
			)

			if format != outputTable {
				return writeStructured(cmd, format, assignmentView{
					Primary:    doc.PrimarySpeaker(),
					Assignment: assignment,
					FromCache:  fromCache,
				})
			}
			printAssignment(cmd.OutOrStdout(), doc, assignment, fromCache)
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Pass document to update")
	cmd.Flags().StringVar(&choose, "choose", "", "Comma-separated slot answers in prompt order")
	cmd.Flags().BoolVar(&reassign, "reassign", false, "Ignore any cached assignment and ask again")
	_ = cmd.MarkFlagRequired("export")
	return cmd
}

type assignmentView struct {
	Primary    string              `json:"primarySpeakerId,omitempty"`
	Assignment speakers.Assignment `json:"assignment"`
	FromCache  bool                `json:"fromCache"`
}

// confirmSpeakers drives the machine until it resolves. Scripted choices are
// strict; interactive answers that are not on offer are asked again.
func confirmSpeakers(m speakers.Machine, choices []int, in *bufio.Scanner, out io.Writer) (speakers.Machine, error) {
	for m.State() == speakers.StateAwaitingConfirmation {
		prompt, _ := m.Prompt()
		var slot int
		switch {
		case choices != nil:
			if len(choices) == 0 {
				return m, services.Wrap(services.ErrValidation, "cli", "assign",
					fmt.Sprintf("--choose ran out before %s was assigned", prompt.Speaker.Label), nil)
			}
			slot, choices = choices[0], choices[1:]
		default:
			fmt.Fprintf(out, "Which face is %s (%ss to %ss)? Slots %s: ",
				prompt.Speaker.Label,
				seconds(prompt.Speaker.Start),
				seconds(prompt.Speaker.End),
				joinInts(prompt.Slots),
			)
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return m, services.Wrap(services.ErrTransient, "cli", "assign", "Failed to read answer", err)
				}
				return m, services.Wrap(services.ErrValidation, "cli", "assign", "Input ended before every speaker was assigned", nil)
			}
			value, err := strconv.Atoi(strings.TrimSpace(in.Text()))
			if err != nil || !slices.Contains(prompt.Slots, value) {
				fmt.Fprintf(out, "Enter one of: %s\n", joinInts(prompt.Slots))
				continue
			}
			slot = value
		}
		next, _, err := m.SelectFace(slot)
		if err != nil {
			if errors.Is(err, speakers.ErrSlotUnavailable) {
				return m, services.Wrap(services.ErrValidation, "cli", "assign",
					fmt.Sprintf("Slot %d is not available for %s (choose from %s)", slot, prompt.Speaker.Label, joinInts(prompt.Slots)), err)
			}
			return m, services.Wrap(services.ErrValidation, "cli", "assign", "Assignment rejected", err)
		}
		m = next
	}
	return m, nil
}

func parseChoices(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	choices := make([]int, 0, len(parts))
	for _, part := range parts {
		slot, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cli", "assign", fmt.Sprintf("Invalid slot %q in --choose", part), err)
		}
		choices = append(choices, slot)
	}
	return choices, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func printAssignment(out io.Writer, doc exchange.Document, assignment speakers.Assignment, fromCache bool) {
	if fromCache {
		fmt.Fprintln(out, "Using cached assignment (pass --reassign to answer again)")
	}
	rows := make([][]string, 0, len(doc.SpeakerSnippets))
	for _, snippet := range doc.SpeakerSnippets {
		slot := "-"
		if v, ok := assignment[snippet.ID]; ok {
			slot = strconv.Itoa(v)
		}
		rows = append(rows, []string{
			snippet.ID,
			snippet.Label,
			slot,
			yesNo(snippet.ID == doc.PrimarySpeaker()),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Speaker", "Label", "Slot", "Primary"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
}
