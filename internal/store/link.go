package store

import (
	"context"
	"time"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/workflow"
	"gorm.io/gorm/clause"
)

func (g *GormStore) CreateLink(ctx context.Context, link *model.OkrLink) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
}

func (g *GormStore) GetLink(ctx context.Context, id string) (*model.OkrLink, error) {
	var link model.OkrLink
	err := g.db.WithContext(ctx).
		Preload("SourceObjective").
		Preload("TargetObjective").
		Preload("TargetKr").
		Where("id = ?", id).
		First(&link).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func (g *GormStore) LockLink(ctx context.Context, id string) (*model.OkrLink, error) {
	var link model.OkrLink
	err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&link).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func (g *GormStore) UpdateLink(ctx context.Context, link *model.OkrLink) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(link).Error
}

func (g *GormStore) FindOccupyingLink(ctx context.Context, sourceObjectiveID string) (*model.OkrLink, error) {
	var links []*model.OkrLink
	err := g.db.WithContext(ctx).
		Where("source_type = ? AND source_objective_id = ?", model.EntityObjective, sourceObjectiveID).
		Where("status in (?)", workflow.StatusStrings(workflow.OccupyingStatuses)).
		Order("created_at desc").
		Limit(1).
		Find(&links).Error
	if err != nil || len(links) == 0 {
		return nil, err
	}
	return links[0], nil
}

func (g *GormStore) FindDuplicateLink(ctx context.Context, sourceObjectiveID, targetType, targetID string) (*model.OkrLink, error) {
	query := g.db.WithContext(ctx).
		Where("source_objective_id = ? AND target_type = ?", sourceObjectiveID, targetType).
		Where("status in (?)", workflow.StatusStrings(workflow.OccupyingStatuses))

	if targetType == model.EntityKeyResult {
		query = query.Where("target_kr_id = ?", targetID)
	} else {
		query = query.Where("target_objective_id = ?", targetID)
	}

	var links []*model.OkrLink
	err := query.Limit(1).Find(&links).Error
	if err != nil || len(links) == 0 {
		return nil, err
	}
	return links[0], nil
}

func (g *GormStore) ListOutgoingLinks(ctx context.Context, sourceObjectiveID string) ([]*model.OkrLink, error) {
	var links []*model.OkrLink
	err := g.db.WithContext(ctx).
		Preload("SourceObjective").
		Preload("TargetObjective").
		Preload("TargetKr").
		Where("source_objective_id = ?", sourceObjectiveID).
		Order("created_at desc").
		Find(&links).Error
	return links, err
}

func (g *GormStore) ListIncomingLinks(ctx context.Context, targetOwnerID string, statuses []workflow.Status) ([]*model.OkrLink, error) {
	query := g.db.WithContext(ctx).
		Preload("SourceObjective").
		Preload("TargetObjective").
		Preload("TargetKr").
		Where("target_owner_id = ?", targetOwnerID)
	if len(statuses) > 0 {
		query = query.Where("status in (?)", workflow.StatusStrings(statuses))
	}

	var links []*model.OkrLink
	err := query.Order("created_at desc").Find(&links).Error
	return links, err
}

func (g *GormStore) ListStaleLinks(ctx context.Context, before time.Time) ([]*model.OkrLink, error) {
	var links []*model.OkrLink
	err := g.db.WithContext(ctx).
		Preload("SourceObjective").
		Preload("TargetObjective").
		Preload("TargetKr").
		Where("status = ?", workflow.StatusPending).
		Where("created_at < ?", before).
		Where("(last_reminded_at IS NULL OR last_reminded_at < ?)", before).
		Order("created_at asc").
		Find(&links).Error
	return links, err
}

func (g *GormStore) MarkLinkReminded(ctx context.Context, id string, at time.Time) error {
	return g.db.WithContext(ctx).
		Model(&model.OkrLink{}).
		Where("id = ?", id).
		UpdateColumn("last_reminded_at", at).Error
}

func (g *GormStore) CreateLinkEvent(ctx context.Context, event *model.OkrLinkEvent) error {
	return g.db.WithContext(ctx).Create(event).Error
}

func (g *GormStore) ListLinkEvents(ctx context.Context, linkID string) ([]*model.OkrLinkEvent, error) {
	var events []*model.OkrLinkEvent
	err := g.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("created_at asc").
		Find(&events).Error
	return events, err
}
