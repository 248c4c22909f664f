package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

// ScanRow is a lightweight listing row for /scans.
type ScanRow struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Source      string    `json:"source,omitempty"`
	Status      string    `json:"status"`
	TotalIssues int       `json:"total_issues"`
}

// SaveScan persists a report plus its flattened issue rows. The issue rows
// keep the report's ranked order via seq.
func (db *DB) SaveScan(id, source string, rep engine.Report) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO scans(id, created_at, source, status, total_issues, report_json) VALUES(?,?,?,?,?,?)`,
		id, rep.Timestamp.UTC().Format(time.RFC3339Nano), source, string(rep.Status), rep.TotalIssues, string(b))
	if err != nil {
		return err
	}
	for i, is := range rep.Issues {
		_, err = tx.Exec(`INSERT INTO issues(scan_id, seq, rule_id, type, severity, title, line, char_start, char_end, snippet)
VALUES(?,?,?,?,?,?,?,?,?,?)`,
			id, i, is.ID, is.Type, string(is.Severity), is.Title,
			is.Occurrence.LineNumber, is.Occurrence.CharStart, is.Occurrence.CharEnd, is.Occurrence.Snippet)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListScans returns recent scans, newest first.
func (db *DB) ListScans(limit, offset int) ([]ScanRow, error) {
	const q = `
		SELECT id, created_at, source, status, total_issues
		  FROM scans
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScanRow
	for rows.Next() {
		var sr ScanRow
		var created string
		var source sql.NullString
		if err := rows.Scan(&sr.ID, &created, &source, &sr.Status, &sr.TotalIssues); err != nil {
			return nil, err
		}
		sr.Source = source.String
		sr.CreatedAt = parseTime(created)
		out = append(out, sr)
	}
	return out, rows.Err()
}

// LoadScan returns the full stored report for a scan id.
func (db *DB) LoadScan(id string) (engine.Report, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT report_json FROM scans WHERE id=?`, id).Scan(&raw)
	if err != nil {
		return engine.Report{}, err
	}
	var rep engine.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return engine.Report{}, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return rep, nil
}

// LoadLatestScan returns the most recent stored report.
func (db *DB) LoadLatestScan() (string, engine.Report, error) {
	var id, raw string
	err := db.conn.QueryRow(`SELECT id, report_json FROM scans ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id, &raw)
	if err != nil {
		return "", engine.Report{}, err
	}
	var rep engine.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return "", engine.Report{}, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return id, rep, nil
}

// ListIssues returns a scan's issues at or above a minimum severity, in the
// report's ranked order.
func (db *DB) ListIssues(scanID, minSeverity string) ([]engine.Issue, error) {
	const q = `
		SELECT rule_id, type, severity, title, line, char_start, char_end, snippet
		  FROM issues
		 WHERE scan_id = ?
		   AND (CASE severity WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END)
		       >= (CASE ? WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END)
		 ORDER BY seq`
	rows, err := db.conn.Query(q, scanID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Issue
	for rows.Next() {
		var is engine.Issue
		var sev string
		if err := rows.Scan(&is.ID, &is.Type, &sev, &is.Title,
			&is.Occurrence.LineNumber, &is.Occurrence.CharStart, &is.Occurrence.CharEnd, &is.Occurrence.Snippet); err != nil {
			return nil, err
		}
		is.Severity = engine.Severity(sev)
		out = append(out, is)
	}
	return out, rows.Err()
}

// HasScan reports whether a scan id exists.
func (db *DB) HasScan(id string) (bool, error) {
	const q = `SELECT 1 FROM scans WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
