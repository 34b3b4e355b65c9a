package store

import (
	"context"

	"github.com/emrgen/okr/internal/model"
	"gorm.io/gorm/clause"
)

// UpsertObjectiveAssignment relies on the partial unique index over (user_id, objective_id)
// for kr_id IS NULL, concurrent approvals cannot create two rows.
func (g *GormStore) UpsertObjectiveAssignment(ctx context.Context, assignment *model.OkrAssignment) (bool, error) {
	assignment.KrID = nil
	res := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}, {Name: "objective_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "kr_id IS NULL"}}},
			DoNothing:   true,
		}).
		Create(assignment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (g *GormStore) GetObjectiveAssignment(ctx context.Context, userID, objectiveID string) (*model.OkrAssignment, error) {
	var assignment model.OkrAssignment
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND objective_id = ? AND kr_id IS NULL", userID, objectiveID).
		First(&assignment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &assignment, nil
}

func (g *GormStore) DeleteObjectiveAssignment(ctx context.Context, userID, objectiveID string) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("user_id = ? AND objective_id = ? AND kr_id IS NULL", userID, objectiveID).
		Delete(&model.OkrAssignment{})
	return res.RowsAffected, res.Error
}
