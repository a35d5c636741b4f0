// Package library keeps the list of followed titles in SQLite, together
// with the chapter count seen on the last check.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for library operations
var (
	ErrEntryNotFound = errors.New("title is not followed")
	ErrDuplicateSlug = errors.New("title is already followed")
	ErrEmptySlug     = errors.New("slug must not be empty")
)

// Store manages followed titles using SQLite.
type Store struct {
	db *sql.DB
}

// Entry is a followed title.
type Entry struct {
	EntryID      uuid.UUID  `json:"entry_id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	ChapterCount int        `json:"chapter_count"`
	AddedAt      time.Time  `json:"added_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CheckedAt    *time.Time `json:"checked_at,omitempty"`
	LastError    *string    `json:"last_error,omitempty"`
}

// EntryUpdate represents fields that can be updated on an entry.
type EntryUpdate struct {
	Name           *string
	ChapterCount   *int
	CheckedAt      *time.Time
	LastError      *string
	ClearLastError bool // Set to true to set last_error to NULL
}

// EntryFilter represents pagination options for listing entries.
type EntryFilter struct {
	Limit  int
	Offset int
}

// NewStore opens (and creates when missing) the library at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS followed (
		entry_id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		chapter_count INTEGER NOT NULL DEFAULT 0,
		added_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		checked_at TEXT,
		last_error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add follows a title.
func (s *Store) Add(slug, name string, chapterCount int) (*Entry, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrEmptySlug
	}

	now := time.Now()
	entry := &Entry{
		EntryID:      uuid.New(),
		Slug:         slug,
		Name:         name,
		ChapterCount: chapterCount,
		AddedAt:      now.Truncate(0),
		UpdatedAt:    now.Truncate(0),
	}

	query := `
		INSERT INTO followed (
			entry_id, slug, name, chapter_count, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		entry.EntryID.String(),
		entry.Slug,
		entry.Name,
		entry.ChapterCount,
		formatTime(&entry.AddedAt),
		formatTime(&entry.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	return entry, nil
}

const selectEntry = `
	SELECT entry_id, slug, name, chapter_count, added_at, updated_at,
	       checked_at, last_error
	FROM followed
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Get returns the entry for slug.
func (s *Store) Get(slug string) (*Entry, error) {
	entry, err := scanEntry(s.db.QueryRow(selectEntry+" WHERE slug = ?", slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// List returns followed titles in the order they were followed.
func (s *Store) List(filter EntryFilter) ([]Entry, error) {
	query := selectEntry + " ORDER BY rowid ASC"

	// SQLite needs a LIMIT before OFFSET; -1 means no limit.
	switch {
	case filter.Limit > 0:
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	case filter.Offset > 0:
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// Count returns how many titles are followed.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM followed").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Update applies update to the entry for slug.
func (s *Store) Update(slug string, update EntryUpdate) error {
	setClauses := []string{"updated_at = ?"}
	now := time.Now()
	args := []any{formatTime(&now)}

	if update.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *update.Name)
	}
	if update.ChapterCount != nil {
		setClauses = append(setClauses, "chapter_count = ?")
		args = append(args, *update.ChapterCount)
	}
	if update.CheckedAt != nil {
		setClauses = append(setClauses, "checked_at = ?")
		args = append(args, formatTime(update.CheckedAt))
	}
	if update.ClearLastError {
		setClauses = append(setClauses, "last_error = ?")
		args = append(args, nil)
	} else if update.LastError != nil {
		setClauses = append(setClauses, "last_error = ?")
		args = append(args, *update.LastError)
	}

	args = append(args, slug)
	query := fmt.Sprintf("UPDATE followed SET %s WHERE slug = ?",
		strings.Join(setClauses, ", "))

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Remove unfollows a title.
func (s *Store) Remove(slug string) error {
	result, err := s.db.Exec("DELETE FROM followed WHERE slug = ?", slug)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entryIDStr, slug, name, addedAtStr, updatedAtStr string
	var chapterCount int
	var checkedAtStr, lastError sql.NullString

	err := row.Scan(
		&entryIDStr, &slug, &name, &chapterCount,
		&addedAtStr, &updatedAtStr, &checkedAtStr, &lastError,
	)
	if err != nil {
		return nil, err
	}

	entryID, err := uuid.Parse(entryIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry ID: %w", err)
	}

	entry := &Entry{
		EntryID:      entryID,
		Slug:         slug,
		Name:         name,
		ChapterCount: chapterCount,
		AddedAt:      parseTime(addedAtStr),
		UpdatedAt:    parseTime(updatedAtStr),
	}
	if checkedAtStr.Valid {
		t := parseTime(checkedAtStr.String)
		entry.CheckedAt = &t
	}
	if lastError.Valid {
		entry.LastError = &lastError.String
	}

	return entry, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "unique constraint")
}

// Helper functions for time formatting
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
