package workflow

import (
	"errors"
	"fmt"
)

// Action is a transition requested on a link.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionRequestChanges Action = "request_changes"
	ActionResubmit       Action = "resubmit"
	ActionCancel         Action = "cancel"
	ActionUnlink         Action = "unlink"
)

// Party identifies who may perform an action.
type Party int

const (
	// PartyTarget is the owner of the target objective.
	PartyTarget Party = iota + 1
	// PartySource is the owner of the source objective.
	PartySource
	// PartyEither accepts both owners.
	PartyEither
)

// ErrInvalidTransition is returned when an action is not allowed from the current status.
var ErrInvalidTransition = errors.New("invalid transition")

type rule struct {
	from  []Status
	to    Status
	party Party
	event string
}

var rules = map[Action]rule{
	ActionApprove: {
		from:  []Status{StatusPending, StatusNeedsChanges},
		to:    StatusApproved,
		party: PartyTarget,
		event: "approved",
	},
	ActionReject: {
		from:  []Status{StatusPending, StatusNeedsChanges},
		to:    StatusRejected,
		party: PartyTarget,
		event: "rejected",
	},
	ActionRequestChanges: {
		from:  []Status{StatusPending},
		to:    StatusNeedsChanges,
		party: PartyTarget,
		event: "needs_changes",
	},
	ActionResubmit: {
		from:  []Status{StatusNeedsChanges},
		to:    StatusPending,
		party: PartySource,
		event: "resubmitted",
	},
	ActionCancel: {
		from:  []Status{StatusPending, StatusNeedsChanges},
		to:    StatusCancelled,
		party: PartySource,
		event: "cancelled",
	},
	ActionUnlink: {
		from:  []Status{StatusApproved},
		to:    StatusRevoked,
		party: PartyEither,
		event: "unlinked",
	},
}

// Next returns the status reached by applying action to from.
func Next(from Status, action Action) (Status, error) {
	r, ok := rules[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}

	return "", fmt.Errorf("%w: cannot %s a link in status %s", ErrInvalidTransition, action, from)
}

// Allowed reports whether action can be applied to a link in status from.
func Allowed(from Status, action Action) bool {
	_, err := Next(from, action)
	return err == nil
}

// PartyFor returns who is authorized to perform action.
func PartyFor(action Action) Party {
	return rules[action].party
}

// EventName is the tag recorded in the link event log for action.
func EventName(action Action) string {
	return rules[action].event
}

// EventRequested is recorded when a link is created.
const EventRequested = "requested"
