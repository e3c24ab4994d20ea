package database

import (
	"testing"

	"score_predictor_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestSqliteDSN(t *testing.T) {
	cases := map[string]string{
		"score_predictor.db":                "score_predictor.db?_foreign_keys=on",
		":memory:":                          ":memory:?_foreign_keys=on",
		"file:data.db?cache=shared":         "file:data.db?cache=shared&_foreign_keys=on",
		"data.db?_busy_timeout=5000&mode=rw": "data.db?_busy_timeout=5000&mode=rw&_foreign_keys=on",
	}
	for path, want := range cases {
		assert.Equal(t, want, sqliteDSN(path), path)
	}
}

func TestSqliteForeignKeysEnabled(t *testing.T) {
	for _, path := range []string{":memory:", ":memory:?_busy_timeout=5000"} {
		dialector, err := Dialector(&config.DatabaseConfig{Driver: "sqlite", Path: path})
		require.NoError(t, err)
		db, err := Open(dialector, logger.Silent)
		require.NoError(t, err)

		var enabled int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error, path)
		assert.Equal(t, 1, enabled, path)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
