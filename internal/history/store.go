// # internal/history/store.go
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"riskmap/internal/analyzer"
	"riskmap/internal/parser"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	topListSize = 5
)

// Snapshot is one scan's aggregate numbers, enough to chart risk drift
// over time without keeping whole analyses around.
type Snapshot struct {
	ScanID          string
	Timestamp       time.Time
	Root            string
	FileCount       int
	TotalLines      int
	ParseErrorCount int
	EdgeCount       int
	MeanRisk        float64
	MaxRisk         float64
	TopRisky        []string
	TopImpactful    []string
}

// NewSnapshot condenses one analysis into a Snapshot row.
func NewSnapshot(root string, analysis *analyzer.CodebaseAnalysis, facts map[string]*parser.FileFacts) Snapshot {
	snap := Snapshot{
		ScanID:     uuid.New().String(),
		Timestamp:  analysis.GeneratedAt.UTC(),
		Root:       root,
		FileCount:  analysis.TotalFiles,
		TotalLines: analysis.TotalLines,
	}

	for _, f := range facts {
		if f.ParseError != "" {
			snap.ParseErrorCount++
		}
	}
	for _, targets := range analysis.DependencyGraph {
		snap.EdgeCount += len(targets)
	}

	var sum float64
	for _, fa := range analysis.Files {
		sum += fa.Risk.Overall
		if fa.Risk.Overall > snap.MaxRisk {
			snap.MaxRisk = fa.Risk.Overall
		}
	}
	if len(analysis.Files) > 0 {
		snap.MeanRisk = sum / float64(len(analysis.Files))
	}

	snap.TopRisky = headOf(analysis.MostRiskyFiles)
	snap.TopImpactful = headOf(analysis.MostImpactfulFiles)
	return snap
}

func headOf(paths []string) []string {
	if len(paths) > topListSize {
		paths = paths[:topListSize]
	}
	return append([]string(nil), paths...)
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.ScanID == "" {
		snapshot.ScanID = uuid.New().String()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO scans (
  scan_id, ts_utc, root, file_count, total_lines, parse_error_count,
  edge_count, mean_risk, max_risk, top_risky, top_impactful
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.ScanID,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.Root,
			snapshot.FileCount,
			snapshot.TotalLines,
			snapshot.ParseErrorCount,
			snapshot.EdgeCount,
			snapshot.MeanRisk,
			snapshot.MaxRisk,
			strings.Join(snapshot.TopRisky, ","),
			strings.Join(snapshot.TopImpactful, ","),
		)
		return err
	})
}

func (s *Store) LoadSnapshots(since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT scan_id, ts_utc, root, file_count, total_lines, parse_error_count,
       edge_count, mean_risk, max_risk, top_risky, top_impactful
FROM scans
`
	args := make([]any, 0, 1)
	if !since.IsZero() {
		query += " WHERE ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw        string
			topRisky     string
			topImpactful string
			snap         Snapshot
		)
		if err := rows.Scan(
			&snap.ScanID,
			&tsRaw,
			&snap.Root,
			&snap.FileCount,
			&snap.TotalLines,
			&snap.ParseErrorCount,
			&snap.EdgeCount,
			&snap.MeanRisk,
			&snap.MaxRisk,
			&topRisky,
			&topImpactful,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snap.Timestamp = ts.UTC()

		if topRisky != "" {
			snap.TopRisky = strings.Split(topRisky, ",")
		}
		if topImpactful != "" {
			snap.TopImpactful = strings.Split(topImpactful, ",")
		}

		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
