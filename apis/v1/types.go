// Package v1 holds the JSON wire types of the OKR link REST API.
package v1

import "time"

const (
	// ActorHeader carries the id of the acting user.
	ActorHeader = "X-User-ID"
)

type Link struct {
	ID                     string     `json:"id"`
	SourceType             string     `json:"source_type"`
	SourceObjectiveID      string     `json:"source_objective_id"`
	SourceTitle            string     `json:"source_title,omitempty"`
	TargetType             string     `json:"target_type"`
	TargetObjectiveID      string     `json:"target_objective_id"`
	TargetKrID             *string    `json:"target_kr_id,omitempty"`
	TargetTitle            string     `json:"target_title,omitempty"`
	Status                 string     `json:"status"`
	RequestedBy            string     `json:"requested_by"`
	TargetOwnerID          string     `json:"target_owner_id"`
	ApprovedBy             *string    `json:"approved_by,omitempty"`
	RequestNote            string     `json:"request_note"`
	DecisionNote           string     `json:"decision_note"`
	IsActive               bool       `json:"is_active"`
	OwnershipTransferredAt *time.Time `json:"ownership_transferred_at,omitempty"`
	RevokedAt              *time.Time `json:"revoked_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type LinkEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	CycleID   string     `json:"cycle_id,omitempty"`
	LinkID    string     `json:"link_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type RequestLinkRequest struct {
	SourceType        string `json:"source_type,omitempty"`
	SourceObjectiveID string `json:"source_objective_id"`
	TargetType        string `json:"target_type"`
	TargetID          string `json:"target_id"`
	Note              string `json:"note,omitempty"`
}

// DecisionRequest is the body of approve, reject, request-changes, resubmit and cancel.
type DecisionRequest struct {
	Note string `json:"note,omitempty"`
}

type UnlinkRequest struct {
	Note          string `json:"note,omitempty"`
	KeepOwnership bool   `json:"keep_ownership,omitempty"`
}

type LinkResponse struct {
	Link *Link `json:"link"`
}

type GetLinkResponse struct {
	Link   *Link        `json:"link"`
	Events []*LinkEvent `json:"events"`
}

type ListLinksResponse struct {
	Links []*Link `json:"links"`
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}

// Error is the body of every failed request. Code is one of the workflow error codes, or
// the gRPC code name for transport failures.
type Error struct {
	Code               string `json:"code"`
	Message            string `json:"message"`
	ConflictTargetType string `json:"conflict_target_type,omitempty"`
	ConflictTargetID   string `json:"conflict_target_id,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}
