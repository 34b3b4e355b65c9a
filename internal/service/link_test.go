package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/okr/internal/audit"
	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/notify"
	"github.com/emrgen/okr/internal/store"
	"github.com/emrgen/okr/internal/tester"
	"github.com/emrgen/okr/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	store   *store.GormStore
	service *LinkService

	alice, bob, carol, dave *model.User
	// a is owned by alice, b by bob, c by carol
	a, b, c *model.Objective
	kr      *model.KeyResult
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := tester.NewDB(t)
	s := store.NewGormStore(db)
	dispatcher := notify.NewDispatcher(notify.NewInboxNotifier(s), s)

	f := &fixture{
		db:      db,
		store:   s,
		service: NewLinkService(s, dispatcher, audit.NewDBSink(s)),
	}
	f.alice = tester.CreateUser(t, db, "alice", "member")
	f.bob = tester.CreateUser(t, db, "bob", "manager")
	f.carol = tester.CreateUser(t, db, "carol", "director")
	f.dave = tester.CreateUser(t, db, "dave", "member")
	f.a = tester.CreateObjective(t, db, "Ship mobile app", f.alice)
	f.b = tester.CreateObjective(t, db, "Grow engagement", f.bob)
	f.c = tester.CreateObjective(t, db, "Company growth", f.carol)
	f.kr = tester.CreateKeyResult(t, db, "Reach 1M MAU", f.b)

	return f
}

func (f *fixture) request(t *testing.T, source *model.Objective, targetType, targetID string) *model.OkrLink {
	t.Helper()

	link, err := f.service.RequestLink(context.TODO(), source.OwnerID, RequestLinkInput{
		SourceObjectiveID: source.ID,
		TargetType:        targetType,
		TargetID:          targetID,
		Note:              "please link",
	})
	require.NoError(t, err)
	return link
}

func (f *fixture) events(t *testing.T, linkID string) []*model.OkrLinkEvent {
	t.Helper()

	events, err := f.store.ListLinkEvents(context.TODO(), linkID)
	require.NoError(t, err)
	return events
}

func TestLinkService_RequestLink(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	assert.Equal(t, workflow.StatusPending, link.Status)
	assert.Equal(t, f.a.ID, link.SourceObjectiveID)
	assert.Equal(t, f.b.ID, link.TargetObjectiveID)
	assert.Nil(t, link.TargetKrID)
	assert.Equal(t, f.alice.ID, link.RequestedBy)
	assert.Equal(t, f.bob.ID, link.TargetOwnerID)
	assert.Equal(t, "please link", link.RequestNote)
	assert.True(t, link.IsActive)

	events := f.events(t, link.ID)
	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventRequested, events[0].Action)
	assert.Equal(t, f.alice.ID, events[0].ActorID)

	inbox, err := f.service.ListNotifications(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "alice requested to link: Ship mobile app → Grow engagement Note: please link", inbox[0].Message)
	assert.Equal(t, link.ID, inbox[0].LinkID)

	own, err := f.service.ListNotifications(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, own, "the actor is never notified")
}

func TestLinkService_RequestLinkToKeyResult(t *testing.T) {
	f := setup(t)

	link := f.request(t, f.a, model.EntityKeyResult, f.kr.ID)

	assert.Equal(t, model.EntityKeyResult, link.TargetType)
	assert.Equal(t, f.b.ID, link.TargetObjectiveID)
	require.NotNil(t, link.TargetKrID)
	assert.Equal(t, f.kr.ID, *link.TargetKrID)
	assert.Equal(t, f.bob.ID, link.TargetOwnerID)
}

func TestLinkService_SingleOutgoingLink(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	f.request(t, f.a, model.EntityObjective, f.b.ID)

	_, err := f.service.RequestLink(ctx, f.alice.ID, RequestLinkInput{
		SourceObjectiveID: f.a.ID,
		TargetType:        model.EntityKeyResult,
		TargetID:          f.kr.ID,
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateSourceLink(err))

	var le *LinkError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, model.EntityObjective, le.ConflictTargetType)
	assert.Equal(t, f.b.ID, le.ConflictTargetID)

	_, err = f.service.RequestLink(ctx, f.alice.ID, RequestLinkInput{
		SourceObjectiveID: f.a.ID,
		TargetType:        model.EntityObjective,
		TargetID:          f.c.ID,
	})
	assert.True(t, IsDuplicateSourceLink(err))
}

func TestLinkService_DuplicateLink(t *testing.T) {
	f := setup(t)

	f.request(t, f.a, model.EntityObjective, f.b.ID)

	// the same open target is reported as a duplicate before the occupied slot
	_, err := f.service.RequestLink(context.TODO(), f.alice.ID, RequestLinkInput{
		SourceObjectiveID: f.a.ID,
		TargetType:        model.EntityObjective,
		TargetID:          f.b.ID,
	})
	assert.True(t, IsDuplicateLink(err))
	assert.False(t, IsDuplicateSourceLink(err))
}

func TestLinkService_RequestLinkValidation(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	tests := []struct {
		name  string
		actor *model.User
		in    RequestLinkInput
		check func(error) bool
	}{
		{
			name:  "key result source",
			actor: f.alice,
			in:    RequestLinkInput{SourceType: model.EntityKeyResult, SourceObjectiveID: f.kr.ID, TargetType: model.EntityObjective, TargetID: f.c.ID},
			check: IsInvalidSource,
		},
		{
			name:  "unknown target type",
			actor: f.alice,
			in:    RequestLinkInput{SourceObjectiveID: f.a.ID, TargetType: "initiative", TargetID: f.b.ID},
			check: IsInvalidTarget,
		},
		{
			name:  "self link",
			actor: f.alice,
			in:    RequestLinkInput{SourceObjectiveID: f.a.ID, TargetType: model.EntityObjective, TargetID: f.a.ID},
			check: IsInvalidTarget,
		},
		{
			name:  "not the source owner",
			actor: f.dave,
			in:    RequestLinkInput{SourceObjectiveID: f.a.ID, TargetType: model.EntityObjective, TargetID: f.b.ID},
			check: IsForbidden,
		},
		{
			name:  "missing source",
			actor: f.alice,
			in:    RequestLinkInput{SourceObjectiveID: "missing", TargetType: model.EntityObjective, TargetID: f.b.ID},
			check: IsNotFound,
		},
		{
			name:  "missing key result",
			actor: f.alice,
			in:    RequestLinkInput{SourceObjectiveID: f.a.ID, TargetType: model.EntityKeyResult, TargetID: "missing"},
			check: IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RequestLink(ctx, tt.actor.ID, tt.in)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}

	outgoing, err := f.service.ListOutgoingLinks(ctx, f.a.ID)
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}

func TestLinkService_ApproveTransfersOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	approved, err := f.service.Approve(ctx, f.bob.ID, link.ID, "welcome")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.bob.ID, *approved.ApprovedBy)
	assert.Equal(t, "welcome", approved.DecisionNote)
	assert.NotNil(t, approved.OwnershipTransferredAt)
	assert.True(t, approved.OwnershipGranted)
	assert.True(t, approved.IsActive)

	assignment, err := f.store.GetObjectiveAssignment(ctx, f.bob.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager", assignment.Role)
	assert.Nil(t, assignment.KrID)

	events := f.events(t, link.ID)
	require.Len(t, events, 2)
	assert.Equal(t, "approved", events[1].Action)
	assert.Equal(t, f.bob.ID, events[1].ActorID)

	inbox, err := f.service.ListNotifications(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "bob approved the link: Ship mobile app → Grow engagement Note: welcome", inbox[0].Message)

	var logs []*model.AuditLog
	require.NoError(t, f.db.Order("id").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{"requested", "approved", "ownership_transferred"}, actions)

	_, err = f.service.Approve(ctx, f.bob.ID, link.ID, "")
	assert.True(t, IsInvalidState(err), "approving twice fails")
	assert.Len(t, f.events(t, link.ID), 2, "failed transitions leave no event")
}

func TestLinkService_ApproveKeepsExistingAssignment(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	created, err := f.store.UpsertObjectiveAssignment(ctx, &model.OkrAssignment{UserID: f.bob.ID, ObjectiveID: f.a.ID, Role: "owner"})
	require.NoError(t, err)
	require.True(t, created)

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)
	approved, err := f.service.Approve(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)
	assert.False(t, approved.OwnershipGranted)

	assignment, err := f.store.GetObjectiveAssignment(ctx, f.bob.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", assignment.Role)
}

func TestLinkService_Authorization(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	_, err := f.service.Approve(ctx, f.alice.ID, link.ID, "")
	assert.True(t, IsForbidden(err), "the requester cannot approve")
	_, err = f.service.Reject(ctx, f.dave.ID, link.ID, "")
	assert.True(t, IsForbidden(err))
	_, err = f.service.RequestChanges(ctx, f.carol.ID, link.ID, "")
	assert.True(t, IsForbidden(err))
	_, err = f.service.Cancel(ctx, f.bob.ID, link.ID, "")
	assert.True(t, IsForbidden(err), "the target owner cannot cancel")

	_, err = f.service.Approve(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)

	_, err = f.service.Unlink(ctx, f.dave.ID, link.ID, UnlinkInput{})
	assert.True(t, IsForbidden(err), "a third party cannot unlink")

	_, err = f.service.Approve(ctx, f.bob.ID, "missing", "")
	assert.True(t, IsNotFound(err))

	assert.Len(t, f.events(t, link.ID), 2)
}

func TestLinkService_Reject(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	rejected, err := f.service.Reject(ctx, f.bob.ID, link.ID, "out of scope")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, rejected.Status)
	assert.Equal(t, "out of scope", rejected.DecisionNote)
	assert.False(t, rejected.IsActive)

	// the outgoing slot is free again
	next := f.request(t, f.a, model.EntityObjective, f.c.ID)
	assert.Equal(t, workflow.StatusPending, next.Status)

	_, err = f.service.Approve(ctx, f.bob.ID, link.ID, "")
	assert.True(t, IsInvalidState(err))
}

func TestLinkService_RequestChangesAndResubmit(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	changed, err := f.service.RequestChanges(ctx, f.bob.ID, link.ID, "tighten the wording")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusNeedsChanges, changed.Status)

	// needs_changes keeps the slot
	_, err = f.service.RequestLink(ctx, f.alice.ID, RequestLinkInput{SourceObjectiveID: f.a.ID, TargetType: model.EntityObjective, TargetID: f.c.ID})
	assert.True(t, IsDuplicateSourceLink(err))

	_, err = f.service.RequestChanges(ctx, f.bob.ID, link.ID, "")
	assert.True(t, IsInvalidState(err))

	_, err = f.service.Resubmit(ctx, f.bob.ID, link.ID, "")
	assert.True(t, IsForbidden(err))

	resubmitted, err := f.service.Resubmit(ctx, f.alice.ID, link.ID, "reworded")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, resubmitted.Status)
	assert.Equal(t, "reworded", resubmitted.RequestNote)

	events := f.events(t, link.ID)
	require.Len(t, events, 3)
	assert.Equal(t, "needs_changes", events[1].Action)
	assert.Equal(t, "resubmitted", events[2].Action)
	assert.Equal(t, f.alice.ID, events[2].ActorID)
}

func TestLinkService_ApproveFromNeedsChanges(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityKeyResult, f.kr.ID)
	_, err := f.service.RequestChanges(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)

	approved, err := f.service.Approve(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, approved.Status)
}

func TestLinkService_Cancel(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	cancelled, err := f.service.Cancel(ctx, f.alice.ID, link.ID, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsActive)

	inbox, err := f.service.ListNotifications(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	_, err = f.service.Cancel(ctx, f.alice.ID, link.ID, "")
	assert.True(t, IsInvalidState(err))

	// the same target can be requested again
	again := f.request(t, f.a, model.EntityObjective, f.b.ID)
	assert.NotEqual(t, link.ID, again.ID)
}

func TestLinkService_Unlink(t *testing.T) {
	tests := []struct {
		name          string
		actor         func(f *fixture) *model.User
		keepOwnership bool
	}{
		{name: "target owner revokes ownership", actor: func(f *fixture) *model.User { return f.bob }},
		{name: "source owner keeps ownership", actor: func(f *fixture) *model.User { return f.alice }, keepOwnership: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.TODO()

			link := f.request(t, f.a, model.EntityObjective, f.b.ID)
			_, err := f.service.Approve(ctx, f.bob.ID, link.ID, "")
			require.NoError(t, err)

			actor := tt.actor(f)
			unlinked, err := f.service.Unlink(ctx, actor.ID, link.ID, UnlinkInput{Note: "reorg", KeepOwnership: tt.keepOwnership})
			require.NoError(t, err)
			assert.Equal(t, workflow.StatusRevoked, unlinked.Status)
			assert.NotNil(t, unlinked.RevokedAt)
			assert.False(t, unlinked.IsActive)

			_, err = f.store.GetObjectiveAssignment(ctx, f.bob.ID, f.a.ID)
			if tt.keepOwnership {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, store.ErrNotFound)
			}

			events := f.events(t, link.ID)
			require.Len(t, events, 3)
			assert.Equal(t, "unlinked", events[2].Action)
			assert.Equal(t, actor.ID, events[2].ActorID)
			assert.Equal(t, "reorg", events[2].Note)

			_, err = f.service.Unlink(ctx, actor.ID, link.ID, UnlinkInput{})
			assert.True(t, IsInvalidState(err))

			// a revoked link frees the slot
			f.request(t, f.a, model.EntityObjective, f.c.ID)
		})
	}
}

func TestLinkService_UnlinkNotifiesCurrentSourceOwner(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)
	_, err := f.service.Approve(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)

	// objective a changes hands after approval
	require.NoError(t, f.db.Model(&model.Objective{}).Where("id = ?", f.a.ID).Update("owner_id", f.dave.ID).Error)

	_, err = f.service.Unlink(ctx, f.bob.ID, link.ID, UnlinkInput{Note: "reorg"})
	require.NoError(t, err)

	inbox, err := f.service.ListNotifications(ctx, f.dave.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "bob unlinked: Ship mobile app → Grow engagement Note: reorg", inbox[0].Message)

	inbox, err = f.service.ListNotifications(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1, "the former owner only has the approval")
	assert.Equal(t, link.ID, inbox[0].LinkID)
	assert.Contains(t, inbox[0].Message, "approved")
}

func TestLinkService_DecisionNotifiesCurrentSourceOwner(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)
	require.NoError(t, f.db.Model(&model.Objective{}).Where("id = ?", f.a.ID).Update("owner_id", f.dave.ID).Error)

	_, err := f.service.Reject(ctx, f.bob.ID, link.ID, "not aligned")
	require.NoError(t, err)

	inbox, err := f.service.ListNotifications(ctx, f.dave.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "bob rejected the link")

	inbox, err = f.service.ListNotifications(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestLinkService_UnlinkKeepsPreexistingAssignment(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	_, err := f.store.UpsertObjectiveAssignment(ctx, &model.OkrAssignment{UserID: f.bob.ID, ObjectiveID: f.a.ID, Role: "owner"})
	require.NoError(t, err)

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)
	_, err = f.service.Approve(ctx, f.bob.ID, link.ID, "")
	require.NoError(t, err)

	_, err = f.service.Unlink(ctx, f.bob.ID, link.ID, UnlinkInput{})
	require.NoError(t, err)

	assignment, err := f.store.GetObjectiveAssignment(ctx, f.bob.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", assignment.Role)

	var logs []*model.AuditLog
	require.NoError(t, f.db.Find(&logs).Error)
	for _, l := range logs {
		assert.NotEqual(t, "ownership_revoked", l.Action)
	}
}

func TestLinkService_UnlinkPendingFails(t *testing.T) {
	f := setup(t)

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	_, err := f.service.Unlink(context.TODO(), f.alice.ID, link.ID, UnlinkInput{})
	assert.True(t, IsInvalidState(err))
}

func TestLinkService_ConcurrentRequests(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	targets := []string{f.b.ID, f.c.ID, f.b.ID, f.c.ID, f.b.ID, f.c.ID}

	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			_, errs[i] = f.service.RequestLink(ctx, f.alice.ID, RequestLinkInput{
				SourceObjectiveID: f.a.ID,
				TargetType:        model.EntityObjective,
				TargetID:          target,
			})
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, IsDuplicateSourceLink(err) || IsDuplicateLink(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	outgoing, err := f.service.ListOutgoingLinks(ctx, f.a.ID)
	require.NoError(t, err)
	assert.Len(t, outgoing, 1)
}

func TestLinkService_GetLinkAndIncoming(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	first := f.request(t, f.a, model.EntityObjective, f.b.ID)
	second := f.request(t, f.c, model.EntityKeyResult, f.kr.ID)
	_, err := f.service.Approve(ctx, f.bob.ID, first.ID, "")
	require.NoError(t, err)

	detail, err := f.service.GetLink(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, detail.Link.Status)
	assert.Len(t, detail.Events, 2)
	require.NotNil(t, detail.Link.SourceObjective)
	assert.Equal(t, "Ship mobile app", detail.Link.SourceObjective.Title)

	_, err = f.service.GetLink(ctx, "missing")
	assert.True(t, IsNotFound(err))

	all, err := f.service.ListIncomingLinks(ctx, f.bob.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.service.ListIncomingLinks(ctx, f.bob.ID, []workflow.Status{workflow.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestLinkService_RemindStaleLinks(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	link := f.request(t, f.a, model.EntityObjective, f.b.ID)

	now := time.Now().UTC()
	f.service.WithClock(func() time.Time { return now.Add(2 * time.Hour) })

	count, err := f.service.RemindStaleLinks(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.service.RemindStaleLinks(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "a link is reminded once per window")

	inbox, err := f.service.ListNotifications(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	reminded, err := f.store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.NotNil(t, reminded.LastRemindedAt)
}

// failingReminderStore fails MarkLinkReminded from the failAt-th call on.
type failingReminderStore struct {
	store.Store
	calls  int
	failAt int
}

func (s *failingReminderStore) MarkLinkReminded(ctx context.Context, id string, at time.Time) error {
	s.calls++
	if s.calls >= s.failAt {
		return errors.New("connection reset")
	}
	return s.Store.MarkLinkReminded(ctx, id, at)
}

func TestLinkService_RemindStaleLinksPartialFailure(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	f.request(t, f.a, model.EntityObjective, f.b.ID)
	f.request(t, f.c, model.EntityKeyResult, f.kr.ID)

	now := time.Now().UTC()
	service := NewLinkService(&failingReminderStore{Store: f.store, failAt: 2}, nil, nil).
		WithClock(func() time.Time { return now.Add(2 * time.Hour) })

	count, err := service.RemindStaleLinks(ctx, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, count)
}

func TestLinkService_WithoutDispatcher(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()
	service := NewLinkService(f.store, nil, nil)

	var link *model.OkrLink
	require.NotPanics(t, func() {
		var err error
		link, err = service.RequestLink(ctx, f.alice.ID, RequestLinkInput{
			SourceObjectiveID: f.a.ID,
			TargetType:        model.EntityObjective,
			TargetID:          f.b.ID,
		})
		require.NoError(t, err)

		_, err = service.Approve(ctx, f.bob.ID, link.ID, "")
		require.NoError(t, err)
	})

	inbox, err := f.service.ListNotifications(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox, "nothing is delivered without a notifier")
}
