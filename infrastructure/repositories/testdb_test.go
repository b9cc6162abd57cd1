package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"importsvc/database"
	"importsvc/logging"
)

// newTestDatabase creates a real SQLite database in a per-test temp dir with
// migrations applied, so repository tests exercise the actual SQL.
func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()

	cfg := database.Config{
		Path:              filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		BusyTimeoutMs:     5000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}

	logger := logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "stderr"})

	db, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
