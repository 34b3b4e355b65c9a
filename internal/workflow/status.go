package workflow

// Status is the lifecycle state of a link request.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusNeedsChanges Status = "needs_changes"
	StatusCancelled    Status = "cancelled"
	// StatusRevoked marks an approved link that was unlinked afterwards.
	StatusRevoked Status = "revoked"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusNeedsChanges,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusRevoked,
}

// OccupyingStatuses are the statuses that hold the single outgoing slot of a source objective.
var OccupyingStatuses = []Status{StatusPending, StatusApproved, StatusNeedsChanges}

// ParseStatus returns the status named by s.
func ParseStatus(s string) (Status, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

func (s Status) String() string {
	return string(s)
}

// IsOpen reports whether the request still awaits a decision.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusNeedsChanges
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusRevoked
}

// Occupies reports whether a link in this status blocks new outgoing links of its source.
func (s Status) Occupies() bool {
	for _, status := range OccupyingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StatusStrings converts statuses into plain strings for query arguments.
func StatusStrings(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
