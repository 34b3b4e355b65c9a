package notify

import (
	"context"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/store"
)

// InboxNotifier stores notifications for in-app display.
type InboxNotifier struct {
	store store.NotificationStore
}

func NewInboxNotifier(store store.NotificationStore) *InboxNotifier {
	return &InboxNotifier{store: store}
}

func (i *InboxNotifier) Notify(ctx context.Context, n Notification) error {
	return i.store.CreateNotification(ctx, &model.Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Message: n.Message,
		CycleID: n.CycleID,
		LinkID:  n.LinkID,
	})
}
