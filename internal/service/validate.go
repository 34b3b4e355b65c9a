package service

import (
	"context"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/store"
)

// validateLinkRequest enforces the uniqueness rules of a new link. It must run inside the
// creating transaction after the source objective has been locked.
func validateLinkRequest(ctx context.Context, tx store.LinkStore, link *model.OkrLink) error {
	dup, err := tx.FindDuplicateLink(ctx, link.SourceObjectiveID, link.TargetType, link.TargetID())
	if err != nil {
		return err
	}
	if dup != nil {
		return errDuplicateLink(dup.TargetType, dup.TargetID())
	}

	existing, err := tx.FindOccupyingLink(ctx, link.SourceObjectiveID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errDuplicateSourceLink(existing.TargetType, existing.TargetID())
	}

	return nil
}
