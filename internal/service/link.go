package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/okr/internal/audit"
	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/notify"
	"github.com/emrgen/okr/internal/store"
	"github.com/emrgen/okr/internal/workflow"
	"github.com/sirupsen/logrus"
)

const auditEntityLink = "okr_link"

// RequestLinkInput is the payload of a new link request.
type RequestLinkInput struct {
	SourceType        string `json:"source_type"`
	SourceObjectiveID string `json:"source_objective_id"`
	TargetType        string `json:"target_type"`
	TargetID          string `json:"target_id"`
	Note              string `json:"note"`
}

// UnlinkInput is the payload of an unlink. KeepOwnership leaves the assignment granted at
// approval in place.
type UnlinkInput struct {
	Note          string `json:"note"`
	KeepOwnership bool   `json:"keep_ownership"`
}

// LinkDetail is a link with its event log.
type LinkDetail struct {
	Link   *model.OkrLink
	Events []*model.OkrLinkEvent
}

// NewLinkService creates a new LinkService.
func NewLinkService(store store.Store, dispatcher *notify.Dispatcher, auditSink audit.Sink) *LinkService {
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher(nil, store)
	}
	if auditSink == nil {
		auditSink = audit.Nop{}
	}

	return &LinkService{
		store:      store,
		dispatcher: dispatcher,
		audit:      auditSink,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// LinkService runs the link request workflow: creation, decisions, cancellation and unlinking.
// State changes are committed before notifications and audit records are sent, so a failing
// side effect never undoes a transition.
type LinkService struct {
	store      store.Store
	dispatcher *notify.Dispatcher
	audit      audit.Sink
	now        func() time.Time
}

// WithClock replaces the time source, used by tests.
func (s *LinkService) WithClock(now func() time.Time) *LinkService {
	s.now = now
	return s
}

// RequestLink creates a pending link from an objective owned by the actor to a target
// objective or key result, and notifies the target owner.
func (s *LinkService) RequestLink(ctx context.Context, actorID string, in RequestLinkInput) (*model.OkrLink, error) {
	sourceType := in.SourceType
	if sourceType == "" {
		sourceType = model.EntityObjective
	}
	if sourceType != model.EntityObjective {
		return nil, errInvalidSource(sourceType)
	}

	var link *model.OkrLink
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		// the lock on the source serialises concurrent requests until this transaction ends
		source, err := tx.LockObjective(ctx, in.SourceObjectiveID)
		if err != nil {
			return lookupError(err, model.EntityObjective, in.SourceObjectiveID)
		}
		if source.OwnerID != actorID {
			return errForbidden("only the owner of objective %s can request a link", source.ID)
		}

		target, err := resolveTarget(ctx, tx, in.TargetType, in.TargetID)
		if err != nil {
			return err
		}

		link, err = BuildLinkPayload(LinkSource{Type: sourceType, Objective: source}, target, actorID, in.Note)
		if err != nil {
			return err
		}

		if err := validateLinkRequest(ctx, tx, link); err != nil {
			return err
		}

		if err := tx.CreateLink(ctx, link); err != nil {
			return fmt.Errorf("create link: %w", err)
		}

		return tx.CreateLinkEvent(ctx, &model.OkrLinkEvent{
			LinkID:  link.ID,
			Action:  workflow.EventRequested,
			ActorID: actorID,
			Note:    in.Note,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("link %s requested: objective %s -> %s %s", link.ID, link.SourceObjectiveID, link.TargetType, link.TargetID())

	return s.afterCommit(ctx, link.ID, actorID, workflow.EventRequested, in.Note, []string{link.TargetOwnerID})
}

// Approve accepts a link and grants the target owner an assignment over the source objective.
func (s *LinkService) Approve(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error) {
	link, err := s.transition(ctx, actorID, linkID, workflow.ActionApprove, note, func(tx store.Store, link *model.OkrLink, now time.Time) error {
		link.ApprovedBy = &actorID
		link.DecisionNote = note
		link.IsActive = true
		return transferOwnership(ctx, tx, link, now)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, "ownership_transferred", model.EntityObjective, link.SourceObjectiveID)
	return link, nil
}

// Reject declines a link request.
func (s *LinkService) Reject(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error) {
	return s.transition(ctx, actorID, linkID, workflow.ActionReject, note, func(_ store.Store, link *model.OkrLink, _ time.Time) error {
		link.DecisionNote = note
		link.IsActive = false
		return nil
	})
}

// RequestChanges sends a pending request back to the requester.
func (s *LinkService) RequestChanges(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error) {
	return s.transition(ctx, actorID, linkID, workflow.ActionRequestChanges, note, func(_ store.Store, link *model.OkrLink, _ time.Time) error {
		link.DecisionNote = note
		return nil
	})
}

// Resubmit puts a request that needed changes back in front of the target owner.
func (s *LinkService) Resubmit(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error) {
	return s.transition(ctx, actorID, linkID, workflow.ActionResubmit, note, func(_ store.Store, link *model.OkrLink, _ time.Time) error {
		if note != "" {
			link.RequestNote = note
		}
		return nil
	})
}

// Cancel withdraws an open request. Only the source objective owner may cancel.
func (s *LinkService) Cancel(ctx context.Context, actorID, linkID, note string) (*model.OkrLink, error) {
	return s.transition(ctx, actorID, linkID, workflow.ActionCancel, note, func(_ store.Store, link *model.OkrLink, _ time.Time) error {
		link.IsActive = false
		return nil
	})
}

// Unlink detaches an approved link. Either owner may unlink; the assignment created at
// approval is removed unless KeepOwnership is set.
func (s *LinkService) Unlink(ctx context.Context, actorID, linkID string, in UnlinkInput) (*model.OkrLink, error) {
	revoked := false
	link, err := s.transition(ctx, actorID, linkID, workflow.ActionUnlink, in.Note, func(tx store.Store, link *model.OkrLink, now time.Time) error {
		link.RevokedAt = &now
		link.IsActive = false
		if in.KeepOwnership {
			return nil
		}
		var err error
		revoked, err = revokeOwnership(ctx, tx, link)
		return err
	})
	if err != nil {
		return nil, err
	}

	if revoked {
		s.record(ctx, actorID, "ownership_revoked", model.EntityObjective, link.SourceObjectiveID)
	}
	return link, nil
}

// GetLink returns a link with its events.
func (s *LinkService) GetLink(ctx context.Context, id string) (*LinkDetail, error) {
	link, err := s.store.GetLink(ctx, id)
	if err != nil {
		return nil, lookupError(err, "link", id)
	}

	events, err := s.store.ListLinkEvents(ctx, id)
	if err != nil {
		return nil, err
	}

	return &LinkDetail{Link: link, Events: events}, nil
}

// ListOutgoingLinks lists the links requested by an objective.
func (s *LinkService) ListOutgoingLinks(ctx context.Context, objectiveID string) ([]*model.OkrLink, error) {
	return s.store.ListOutgoingLinks(ctx, objectiveID)
}

// ListIncomingLinks lists the links addressed to a target owner.
func (s *LinkService) ListIncomingLinks(ctx context.Context, ownerID string, statuses []workflow.Status) ([]*model.OkrLink, error) {
	return s.store.ListIncomingLinks(ctx, ownerID, statuses)
}

// ListNotifications returns the in-app notifications of a user.
func (s *LinkService) ListNotifications(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// RemindStaleLinks notifies target owners of links pending for longer than olderThan.
// Each link is reminded at most once per olderThan window.
func (s *LinkService) RemindStaleLinks(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now()
	links, err := s.store.ListStaleLinks(ctx, now.Add(-olderThan))
	if err != nil {
		return 0, err
	}

	// links before i were reminded and marked, the caller gets that count with the error
	for i, link := range links {
		s.dispatcher.Remind(ctx, link)
		if err := s.store.MarkLinkReminded(ctx, link.ID, now); err != nil {
			return i, fmt.Errorf("mark link %s reminded: %w", link.ID, err)
		}
	}

	return len(links), nil
}

type applyFunc func(tx store.Store, link *model.OkrLink, now time.Time) error

// transition locks the link, checks the actor and the state machine, applies the change and
// appends the event in one transaction, then notifies the counterpart.
func (s *LinkService) transition(ctx context.Context, actorID, linkID string, action workflow.Action, note string, apply applyFunc) (*model.OkrLink, error) {
	var link *model.OkrLink
	var sourceOwnerID string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		link, err = tx.LockLink(ctx, linkID)
		if err != nil {
			return lookupError(err, "link", linkID)
		}

		source, err := tx.GetObjective(ctx, link.SourceObjectiveID)
		if err != nil {
			return lookupError(err, model.EntityObjective, link.SourceObjectiveID)
		}
		sourceOwnerID = source.OwnerID

		if err := authorize(link, sourceOwnerID, actorID, action); err != nil {
			return err
		}

		next, err := workflow.Next(link.Status, action)
		if err != nil {
			return errInvalidState(err)
		}
		link.Status = next

		if err := apply(tx, link, s.now()); err != nil {
			return err
		}

		if err := tx.UpdateLink(ctx, link); err != nil {
			return fmt.Errorf("update link: %w", err)
		}

		return tx.CreateLinkEvent(ctx, &model.OkrLinkEvent{
			LinkID:  link.ID,
			Action:  workflow.EventName(action),
			ActorID: actorID,
			Note:    note,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("link %s: %s by %s, status %s", link.ID, action, actorID, link.Status)

	return s.afterCommit(ctx, link.ID, actorID, workflow.EventName(action), note, recipientsFor(action, link, sourceOwnerID))
}

func (s *LinkService) afterCommit(ctx context.Context, linkID, actorID, event, note string, recipients []string) (*model.OkrLink, error) {
	link, err := s.store.GetLink(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("reload link %s: %w", linkID, err)
	}

	s.dispatcher.Dispatch(ctx, notify.Event{
		ActorID:    actorID,
		Action:     event,
		Link:       link,
		Note:       note,
		Recipients: recipients,
	})
	s.record(ctx, actorID, event, auditEntityLink, link.ID)

	return link, nil
}

func (s *LinkService) record(ctx context.Context, actorID, action, entity, entityID string) {
	err := s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: s.now(),
	})
	if err != nil {
		logrus.Errorf("audit: record %s on %s %s: %v", action, entity, entityID, err)
	}
}

func resolveTarget(ctx context.Context, tx store.ObjectiveStore, targetType, targetID string) (LinkTarget, error) {
	switch targetType {
	case model.EntityObjective:
		objective, err := tx.GetObjective(ctx, targetID)
		if err != nil {
			return LinkTarget{}, lookupError(err, model.EntityObjective, targetID)
		}
		return LinkTarget{Type: targetType, Objective: objective}, nil
	case model.EntityKeyResult:
		kr, err := tx.GetKeyResult(ctx, targetID)
		if err != nil {
			return LinkTarget{}, lookupError(err, model.EntityKeyResult, targetID)
		}
		return LinkTarget{Type: targetType, KeyResult: kr}, nil
	}
	return LinkTarget{}, errInvalidTarget("unknown target type %q", targetType)
}

func lookupError(err error, entity, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errNotFound(entity, id)
	}
	return err
}
