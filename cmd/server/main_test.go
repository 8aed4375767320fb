package main

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
)

func TestAppClose_ReleasesDatabase(t *testing.T) {
	db, err := database.Connect(&config.Config{
		GinMode: gin.TestMode,
		DB: config.DBConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "app.db"),
		},
	})
	require.NoError(t, err)

	a := &app{db: db}
	require.NoError(t, a.close())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Error(t, sqlDB.Ping())
}
