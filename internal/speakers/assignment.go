package speakers

import (
	"errors"
	"fmt"
	"slices"

	"recut/internal/transcript"
)

// ErrAssignmentMisuse marks a transition the caller should never have made.
var ErrAssignmentMisuse = errors.New("speaker assignment misuse")

var (
	// ErrNotAwaiting rejects SelectFace outside AwaitingConfirmation.
	ErrNotAwaiting = fmt.Errorf("%w: not awaiting confirmation", ErrAssignmentMisuse)
	// ErrSlotUnavailable rejects a slot that is not currently offered.
	ErrSlotUnavailable = fmt.Errorf("%w: slot not available", ErrAssignmentMisuse)
)

// State is the assignment flow position.
type State int

const (
	StateIdle State = iota
	StateAwaitingConfirmation
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Assignment maps speaker ids to face slots.
type Assignment map[string]int

// SlotFor returns the assigned slot for id, or fallback when unassigned.
func (a Assignment) SlotFor(id string, fallback int) int {
	if slot, ok := a[id]; ok {
		return slot
	}
	return fallback
}

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Prompt describes the question the UI should ask next.
type Prompt struct {
	Speaker transcript.SpeakerSnippet
	Slots   []int
	// Remaining counts speakers still waiting, including Speaker.
	Remaining int
}

// Machine walks a person through matching speakers to face slots with as
// few questions as possible. The zero value is idle.
type Machine struct {
	state      State
	snippets   []transcript.SpeakerSnippet
	primary    string
	queue      []string
	available  []int
	assignment Assignment
}

// Begin starts a new flow, discarding any previous progress. It resolves
// immediately when there is at most one speaker or the primary speaker (the
// one with the most face candidates) offers at most one distinct slot.
func (m Machine) Begin(snippets []transcript.SpeakerSnippet, slotsBySpeaker map[string][]transcript.FaceCandidate) (Machine, Assignment) {
	next := Machine{
		snippets:   slices.Clone(snippets),
		assignment: Assignment{},
	}
	next.primary = primarySpeaker(snippets, slotsBySpeaker)
	slots := distinctSlots(slotsBySpeaker[next.primary])

	if len(snippets) <= 1 || len(slots) <= 1 {
		if len(slots) > 0 {
			for _, s := range snippets {
				next.assignment[s.ID] = slots[0]
			}
		}
		next.state = StateResolved
		return next, next.assignment.Clone()
	}

	next.queue = make([]string, 0, len(snippets))
	for _, s := range snippets {
		next.queue = append(next.queue, s.ID)
	}
	next.available = slots
	next.state = StateAwaitingConfirmation
	return next, next.assignment.Clone()
}

// SelectFace assigns slot to the active speaker. Misuse returns an error
// wrapping ErrAssignmentMisuse and the unchanged machine.
func (m Machine) SelectFace(slot int) (Machine, Assignment, error) {
	if m.state != StateAwaitingConfirmation {
		return m, m.Assignment(), fmt.Errorf("%w (state %s)", ErrNotAwaiting, m.state)
	}
	idx := slices.Index(m.available, slot)
	if idx < 0 {
		return m, m.Assignment(), fmt.Errorf("%w: %d not in %v", ErrSlotUnavailable, slot, m.available)
	}

	next := m
	next.assignment = m.assignment.Clone()
	next.assignment[m.queue[0]] = slot
	next.available = slices.Delete(slices.Clone(m.available), idx, idx+1)
	next.queue = slices.Clone(m.queue[1:])

	switch {
	case len(next.queue) == 1 && len(next.available) == 1:
		// Nothing left to ask.
		next.assignment[next.queue[0]] = next.available[0]
		next.queue = nil
		next.available = nil
		next.state = StateResolved
	case len(next.queue) == 0 || len(next.available) == 0:
		next.state = StateResolved
	}
	return next, next.assignment.Clone(), nil
}

// State returns the current flow position.
func (m Machine) State() State { return m.state }

// Primary returns the speaker whose face candidates define the slots.
func (m Machine) Primary() string { return m.primary }

// Active returns the speaker awaiting a choice, or "" when none is.
func (m Machine) Active() string {
	if m.state != StateAwaitingConfirmation || len(m.queue) == 0 {
		return ""
	}
	return m.queue[0]
}

// AvailableSlots returns the slots still offered.
func (m Machine) AvailableSlots() []int { return slices.Clone(m.available) }

// Assignment returns a copy of the choices made so far.
func (m Machine) Assignment() Assignment {
	if m.assignment == nil {
		return Assignment{}
	}
	return m.assignment.Clone()
}

// Prompt returns the next question for the UI. The boolean is false unless
// the machine is awaiting confirmation.
func (m Machine) Prompt() (Prompt, bool) {
	active := m.Active()
	if active == "" {
		return Prompt{}, false
	}
	p := Prompt{Slots: m.AvailableSlots(), Remaining: len(m.queue)}
	for _, s := range m.snippets {
		if s.ID == active {
			p.Speaker = s
			break
		}
	}
	return p, true
}

// primarySpeaker picks the snippet speaker with the most candidates; ties go
// to the earliest in snippet order.
func primarySpeaker(snippets []transcript.SpeakerSnippet, slotsBySpeaker map[string][]transcript.FaceCandidate) string {
	primary, best := "", -1
	for _, s := range snippets {
		if n := len(slotsBySpeaker[s.ID]); n > best {
			primary, best = s.ID, n
		}
	}
	return primary
}

func distinctSlots(candidates []transcript.FaceCandidate) []int {
	seen := make(map[int]struct{}, len(candidates))
	var slots []int
	for _, c := range candidates {
		if _, ok := seen[c.Slot]; ok {
			continue
		}
		seen[c.Slot] = struct{}{}
		slots = append(slots, c.Slot)
	}
	slices.Sort(slots)
	return slots
}
