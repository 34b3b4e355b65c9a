package service

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/store"
	"github.com/sirupsen/logrus"
)

// transferOwnership grants the target owner an objective-level assignment over the source,
// with the role the owner holds now. An existing assignment is left as is.
func transferOwnership(ctx context.Context, tx store.Store, link *model.OkrLink, now time.Time) error {
	owner, err := tx.GetUser(ctx, link.TargetOwnerID)
	if err != nil {
		return lookupError(err, "user", link.TargetOwnerID)
	}

	created, err := tx.UpsertObjectiveAssignment(ctx, &model.OkrAssignment{
		UserID:      owner.ID,
		ObjectiveID: link.SourceObjectiveID,
		Role:        owner.Role,
	})
	if err != nil {
		return fmt.Errorf("assign objective %s to %s: %w", link.SourceObjectiveID, owner.ID, err)
	}
	if !created {
		logrus.Infof("user %s already assigned to objective %s", owner.ID, link.SourceObjectiveID)
	}

	link.OwnershipTransferredAt = &now
	link.OwnershipGranted = created
	return nil
}

// revokeOwnership removes the assignment granted at approval. An assignment that predates the
// link is not the link's to take back. It reports whether an assignment was removed.
func revokeOwnership(ctx context.Context, tx store.Store, link *model.OkrLink) (bool, error) {
	if !link.OwnershipGranted {
		logrus.Infof("assignment of objective %s to %s predates link %s, keeping it", link.SourceObjectiveID, link.TargetOwnerID, link.ID)
		return false, nil
	}

	removed, err := tx.DeleteObjectiveAssignment(ctx, link.TargetOwnerID, link.SourceObjectiveID)
	if err != nil {
		return false, fmt.Errorf("revoke assignment of objective %s from %s: %w", link.SourceObjectiveID, link.TargetOwnerID, err)
	}
	if removed == 0 {
		logrus.Warnf("no assignment of objective %s to %s to revoke", link.SourceObjectiveID, link.TargetOwnerID)
	}
	link.OwnershipGranted = false
	return removed > 0, nil
}
