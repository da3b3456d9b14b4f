package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createOrganizationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAPIKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		key_fingerprint TEXT NOT NULL UNIQUE,
		secret_hash TEXT NOT NULL,
		scopes TEXT NOT NULL,
		rate_limit_hourly INTEGER NOT NULL DEFAULT 0,
		rate_limit_daily INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL,
		last_used_at DATETIME,
		expires_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createNotificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		api_key_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT,
		body TEXT NOT NULL,
		status TEXT NOT NULL,
		scheduled_at DATETIME,
		sent_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAuditEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		api_key_id TEXT,
		fingerprint TEXT,
		organization_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		request_id TEXT,
		endpoint TEXT,
		metadata TEXT,
		message TEXT,
		created_at DATETIME
	);`)
}
