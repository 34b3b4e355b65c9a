package store

import (
	"context"

	"github.com/emrgen/okr/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (g *GormStore) ListUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	var users []*model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Find(&users).Error
	return users, err
}

func (g *GormStore) GetObjective(ctx context.Context, id string) (*model.Objective, error) {
	var objective model.Objective
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&objective).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &objective, nil
}

// LockObjective selects the objective FOR UPDATE. sqlite has no row locks, there the single
// writer connection serialises the transactions instead.
func (g *GormStore) LockObjective(ctx context.Context, id string) (*model.Objective, error) {
	var objective model.Objective
	err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&objective).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &objective, nil
}

func (g *GormStore) GetKeyResult(ctx context.Context, id string) (*model.KeyResult, error) {
	var kr model.KeyResult
	err := g.db.WithContext(ctx).Preload("Objective").Where("id = ?", id).First(&kr).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &kr, nil
}

func (g *GormStore) CreateNotification(ctx context.Context, notification *model.Notification) error {
	return g.db.WithContext(ctx).Create(notification).Error
}

func (g *GormStore) ListNotifications(ctx context.Context, userID string) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

func (g *GormStore) CreateAuditLog(ctx context.Context, log *model.AuditLog) error {
	return g.db.WithContext(ctx).Create(log).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
