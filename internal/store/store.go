package store

import (
	"context"
	"time"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/workflow"
)

type Store interface {
	ObjectiveStore
	LinkStore
	AssignmentStore
	NotificationStore
	AuditStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// ObjectiveStore gives read access to the objectives, key results and users owned by the
// wider OKR application.
type ObjectiveStore interface {
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*model.User, error)
	// ListUsers retrieves the users with the given IDs.
	ListUsers(ctx context.Context, ids []string) ([]*model.User, error)
	// GetObjective retrieves an objective by ID.
	GetObjective(ctx context.Context, id string) (*model.Objective, error)
	// LockObjective retrieves an objective and holds a row lock on it until the transaction ends.
	LockObjective(ctx context.Context, id string) (*model.Objective, error)
	// GetKeyResult retrieves a key result with its objective.
	GetKeyResult(ctx context.Context, id string) (*model.KeyResult, error)
}

type LinkStore interface {
	// CreateLink inserts a new link request.
	CreateLink(ctx context.Context, link *model.OkrLink) error
	// GetLink retrieves a link with its source and target entities.
	GetLink(ctx context.Context, id string) (*model.OkrLink, error)
	// LockLink retrieves a link and holds a row lock on it until the transaction ends.
	LockLink(ctx context.Context, id string) (*model.OkrLink, error)
	// UpdateLink writes every column of the link, associations are left untouched.
	UpdateLink(ctx context.Context, link *model.OkrLink) error
	// FindOccupyingLink returns the link holding the outgoing slot of a source objective, or nil.
	FindOccupyingLink(ctx context.Context, sourceObjectiveID string) (*model.OkrLink, error)
	// FindDuplicateLink returns a non-terminal link with the same source and target, or nil.
	FindDuplicateLink(ctx context.Context, sourceObjectiveID, targetType, targetID string) (*model.OkrLink, error)
	// ListOutgoingLinks lists every link requested by a source objective, newest first.
	ListOutgoingLinks(ctx context.Context, sourceObjectiveID string) ([]*model.OkrLink, error)
	// ListIncomingLinks lists links awaiting or decided by a target owner, filtered by status when given.
	ListIncomingLinks(ctx context.Context, targetOwnerID string, statuses []workflow.Status) ([]*model.OkrLink, error)
	// ListStaleLinks lists pending links not created or reminded since before.
	ListStaleLinks(ctx context.Context, before time.Time) ([]*model.OkrLink, error)
	// MarkLinkReminded records when the target owner was last reminded.
	MarkLinkReminded(ctx context.Context, id string, at time.Time) error
	// CreateLinkEvent appends an event to the link log.
	CreateLinkEvent(ctx context.Context, event *model.OkrLinkEvent) error
	// ListLinkEvents lists the events of a link in the order they happened.
	ListLinkEvents(ctx context.Context, linkID string) ([]*model.OkrLinkEvent, error)
}

type AssignmentStore interface {
	// UpsertObjectiveAssignment inserts the assignment unless one already exists for the
	// same user and objective, reports whether a row was inserted.
	UpsertObjectiveAssignment(ctx context.Context, assignment *model.OkrAssignment) (bool, error)
	// GetObjectiveAssignment retrieves the objective-level assignment of a user.
	GetObjectiveAssignment(ctx context.Context, userID, objectiveID string) (*model.OkrAssignment, error)
	// DeleteObjectiveAssignment removes the objective-level assignment of a user.
	DeleteObjectiveAssignment(ctx context.Context, userID, objectiveID string) (int64, error)
}

type NotificationStore interface {
	// CreateNotification stores an in-app notification.
	CreateNotification(ctx context.Context, notification *model.Notification) error
	// ListNotifications lists a user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]*model.Notification, error)
}

type AuditStore interface {
	// CreateAuditLog appends an audit record.
	CreateAuditLog(ctx context.Context, log *model.AuditLog) error
}
