package tester

import (
	"testing"
	"time"

	"github.com/emrgen/okr/internal/model"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
// A single connection is kept so concurrent transactions queue up like they would behind row locks.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name, role string) *model.User {
	t.Helper()

	user := &model.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateObjective(t testing.TB, db *gorm.DB, title string, owner *model.User) *model.Objective {
	t.Helper()

	objective := &model.Objective{
		ID:      uuid.NewString(),
		Title:   title,
		OwnerID: owner.ID,
		CycleID: "cycle-1",
	}
	if err := db.Create(objective).Error; err != nil {
		t.Fatalf("create objective: %v", err)
	}
	return objective
}

func CreateKeyResult(t testing.TB, db *gorm.DB, title string, objective *model.Objective) *model.KeyResult {
	t.Helper()

	kr := &model.KeyResult{
		ID:          uuid.NewString(),
		ObjectiveID: objective.ID,
		Title:       title,
		OwnerID:     objective.OwnerID,
	}
	if err := db.Omit("Objective").Create(kr).Error; err != nil {
		t.Fatalf("create key result: %v", err)
	}
	return kr
}
