package notify

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/okr/internal/model"
	"github.com/sirupsen/logrus"
)

// UserLookup resolves actor names.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Event describes a committed transition to announce.
type Event struct {
	ActorID    string
	Action     string
	Link       *model.OkrLink
	Note       string
	Recipients []string
}

// Dispatcher turns workflow events into notifications. Delivery failures are logged and
// never returned, the transition they describe is already committed.
type Dispatcher struct {
	notifier Notifier
	users    UserLookup
}

func NewDispatcher(notifier Notifier, users UserLookup) *Dispatcher {
	if notifier == nil {
		notifier = Nop{}
	}
	return &Dispatcher{
		notifier: notifier,
		users:    users,
	}
}

// Dispatch notifies every recipient except the actor, each user at most once.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	recipients := d.recipients(ev.ActorID, ev.Recipients)
	if len(recipients) == 0 {
		return
	}

	message := Compose(d.nameOf(ctx, ev.ActorID), ev.Action, ev.Link, ev.Note)
	for _, userID := range recipients {
		d.send(ctx, Notification{
			UserID:  userID,
			Type:    TypeOkrLink,
			Subject: Subject(ev.Action, ev.Link),
			Message: message,
			CycleID: cycleOf(ev.Link),
			LinkID:  ev.Link.ID,
		}, ev.Action)
	}
}

// Remind nudges the target owner about a link still awaiting a decision.
func (d *Dispatcher) Remind(ctx context.Context, link *model.OkrLink) {
	requester := d.nameOf(ctx, link.RequestedBy)
	d.send(ctx, Notification{
		UserID:  link.TargetOwnerID,
		Type:    TypeOkrLink,
		Subject: Subject(EventReminder, link),
		Message: Compose(requester, EventReminder, link, ""),
		CycleID: cycleOf(link),
		LinkID:  link.ID,
	}, EventReminder)
}

// nameOf returns the display name of a user, falling back to the id.
func (d *Dispatcher) nameOf(ctx context.Context, userID string) string {
	if d.users == nil {
		return userID
	}

	user, err := d.users.GetUser(ctx, userID)
	if err != nil {
		logrus.Warnf("notify: resolve user %s: %v", userID, err)
		return userID
	}
	if user.Name == "" {
		return userID
	}
	return user.Name
}

func (d *Dispatcher) send(ctx context.Context, n Notification, action string) {
	if err := d.notifier.Notify(ctx, n); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": n.UserID,
			"link_id": n.LinkID,
			"action":  action,
		}).Errorf("notify: delivery failed: %v", err)
	}
}

func (d *Dispatcher) recipients(actorID string, candidates []string) []string {
	seen := mapset.NewThreadUnsafeSet[string](actorID, "")
	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if seen.Contains(id) {
			continue
		}
		seen.Add(id)
		out = append(out, id)
	}
	return out
}

func cycleOf(link *model.OkrLink) string {
	if link.SourceObjective != nil {
		return link.SourceObjective.CycleID
	}
	return ""
}
