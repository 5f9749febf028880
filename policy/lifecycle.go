package policy

import (
	"errors"
	"fmt"
	"strings"

	"civicreport-be/models"
)

// TransitionMode selects how strictly status changes are checked.
type TransitionMode string

const (
	// FreeTransitions lets an authorized actor set any status, including
	// moving an issue back.
	FreeTransitions TransitionMode = "free"
	// StrictTransitions only moves forward: Pending, In Progress, Resolved.
	StrictTransitions TransitionMode = "strict"
)

var (
	ErrUnknownStatus  = errors.New("invalid status")
	ErrBackwardStatus = errors.New("status cannot move backwards")
)

// ParseTransitionMode accepts "free" or "strict", case-insensitive.
// Empty selects free.
func ParseTransitionMode(s string) (TransitionMode, error) {
	switch TransitionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FreeTransitions:
		return FreeTransitions, nil
	case StrictTransitions:
		return StrictTransitions, nil
	}
	return "", fmt.Errorf("unknown transition mode %q", s)
}

// Lifecycle validates status transitions.
type Lifecycle struct {
	Mode TransitionMode
}

func NewLifecycle(mode TransitionMode) Lifecycle {
	if mode == "" {
		mode = FreeTransitions
	}
	return Lifecycle{Mode: mode}
}

// Transition checks moving from -> to. Staying put is always allowed.
func (l Lifecycle) Transition(from, to models.IssueStatus) error {
	if !to.Valid() {
		return ErrUnknownStatus
	}
	if from == to {
		return nil
	}
	if l.Mode == StrictTransitions && from.Valid() && to.Rank() < from.Rank() {
		return fmt.Errorf("%w: %s to %s", ErrBackwardStatus, from, to)
	}
	return nil
}

// NextStates lists the statuses reachable from s, excluding s.
func (l Lifecycle) NextStates(s models.IssueStatus) []models.IssueStatus {
	var out []models.IssueStatus
	for _, to := range models.Statuses {
		if to != s && l.Transition(s, to) == nil {
			out = append(out, to)
		}
	}
	return out
}
