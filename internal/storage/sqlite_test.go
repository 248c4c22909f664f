package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema())
	return db
}

func sampleReport(issues ...engine.Issue) engine.Report {
	status := engine.StatusClean
	if len(issues) > 0 {
		status = engine.StatusIssuesFound
	}
	return engine.Report{
		Timestamp:   time.Now().UTC(),
		Status:      status,
		TotalIssues: len(issues),
		Issues:      issues,
	}
}

func TestSaveAndLoadScan(t *testing.T) {
	db := openTestDB(t)

	rep := sampleReport(
		engine.Issue{ID: "A001", Type: "performance", Title: "t", Severity: engine.SeverityHigh,
			Occurrence: engine.Occurrence{LineNumber: 1, Snippet: "useEffect(() => {})", CharStart: 0, CharEnd: 19}},
		engine.Issue{ID: "A010", Type: "maintainability", Title: "t2", Severity: engine.SeverityInfo,
			Occurrence: engine.Occurrence{LineNumber: 4, Snippet: "console.log(", CharStart: 40, CharEnd: 52}},
	)
	require.NoError(t, db.SaveScan("scan-1", "demo.jsx", rep))

	got, err := db.LoadScan("scan-1")
	require.NoError(t, err)
	require.Equal(t, rep.Status, got.Status)
	require.Equal(t, rep.TotalIssues, got.TotalIssues)
	require.Len(t, got.Issues, 2)
	require.Equal(t, "A001", got.Issues[0].ID)

	ok, err := db.HasScan("scan-1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = db.HasScan("scan-missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListScansAndIssues(t *testing.T) {
	db := openTestDB(t)

	high := engine.Issue{ID: "A001", Type: "performance", Title: "t", Severity: engine.SeverityHigh,
		Occurrence: engine.Occurrence{LineNumber: 1}}
	info := engine.Issue{ID: "A010", Type: "maintainability", Title: "t2", Severity: engine.SeverityInfo,
		Occurrence: engine.Occurrence{LineNumber: 2}}

	first := sampleReport(high, info)
	first.Timestamp = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.SaveScan("scan-1", "", first))
	require.NoError(t, db.SaveScan("scan-2", "", sampleReport()))

	rows, err := db.ListScans(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "scan-2", rows[0].ID, "newest first")

	id, latest, err := db.LoadLatestScan()
	require.NoError(t, err)
	require.Equal(t, "scan-2", id)
	require.Equal(t, engine.StatusClean, latest.Status)

	all, err := db.ListIssues("scan-1", "info")
	require.NoError(t, err)
	require.Len(t, all, 2)

	onlyHigh, err := db.ListIssues("scan-1", "high")
	require.NoError(t, err)
	require.Len(t, onlyHigh, 1)
	require.Equal(t, "A001", onlyHigh[0].ID)
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)

	n, err := db.CountUsers()
	require.NoError(t, err)
	require.Zero(t, n)

	uid, err := db.CreateUser("admin", "hash", "admin")
	require.NoError(t, err)

	u, hash, err := db.GetUserByUsername("admin")
	require.NoError(t, err)
	require.Equal(t, uid, u.ID)
	require.Equal(t, "hash", hash)
	require.Equal(t, "admin", u.Role)

	require.NoError(t, db.CreateSession(uid, "tok", time.Now().Add(time.Hour)))
	su, err := db.GetSession("tok")
	require.NoError(t, err)
	require.Equal(t, "admin", su.Username)

	require.NoError(t, db.DeleteSession("tok"))
	_, err = db.GetSession("tok")
	require.Error(t, err)

	require.NoError(t, db.LogAudit("admin", "login", "", map[string]any{"ip": "127.0.0.1"}))
}

func TestExpiredSessionRejected(t *testing.T) {
	db := openTestDB(t)
	uid, err := db.CreateUser("viewer", "hash", "viewer")
	require.NoError(t, err)
	require.NoError(t, db.CreateSession(uid, "old", time.Now().Add(-time.Minute)))
	_, err = db.GetSession("old")
	require.Error(t, err)
}
