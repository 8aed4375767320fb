package database

import (
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/logger"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// secondaryIndexes back the authorization lookups and task listing filters.
var secondaryIndexes = []index{
	{"tasks", "idx_tasks_assigned_user_id", "assigned_user_id"},
	{"tasks", "idx_tasks_project_id", "project_id"},
	{"tasks", "idx_tasks_status", "status"},
	{"projects", "idx_projects_owner_id", "owner_id"},
	{"project_collaborators", "idx_project_collaborators_user_id", "user_id"},
}

// AddIndexes creates the secondary indexes that do not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
