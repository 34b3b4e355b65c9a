package model

import (
	"fmt"
	"strings"

	"github.com/emrgen/okr/internal/workflow"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables owned by the link workflow and the read-only
// collaborator tables it queries.
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&User{},
		&Objective{},
		&KeyResult{},
		&OkrLink{},
		&OkrLinkEvent{},
		&OkrAssignment{},
		&Notification{},
		&AuditLog{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}

	return migrateIndexes(db)
}

// partial unique indexes are not expressible with gorm tags, both postgres and sqlite accept this form
func migrateIndexes(db *gorm.DB) error {
	occupying := make([]string, 0, len(workflow.OccupyingStatuses))
	for _, s := range workflow.OccupyingStatuses {
		occupying = append(occupying, "'"+string(s)+"'")
	}

	statements := []string{
		fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_okr_links_source_occupied ON okr_links (source_objective_id) WHERE status IN (%s)",
			strings.Join(occupying, ", "),
		),
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_okr_assignments_objective_owner ON okr_assignments (user_id, objective_id) WHERE kr_id IS NULL",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
