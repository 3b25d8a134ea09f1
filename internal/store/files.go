package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ProjectFile is one stored file row. Files are keyed by (project, path);
// writing an existing path replaces the stored content.
type ProjectFile struct {
	ProjectID string    `json:"project_id"`
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertFile writes one file row, replacing any earlier content at the same
// path.
func (s *Store) UpsertFile(f *ProjectFile) error {
	updatedAt := f.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.Exec(`
		INSERT INTO project_files (project_id, path, content, language, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, path) DO UPDATE SET
			content = excluded.content,
			language = excluded.language,
			updated_at = excluded.updated_at
	`, f.ProjectID, f.Path, f.Content, f.Language, formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("upsert file %s: %w", f.Path, err)
	}
	return nil
}

// UpsertFiles writes a batch of file rows in one transaction.
func (s *Store) UpsertFiles(files []ProjectFile) error {
	if len(files) == 0 {
		return nil
	}

	return s.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO project_files (project_id, path, content, language, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(project_id, path) DO UPDATE SET
				content = excluded.content,
				language = excluded.language,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, f := range files {
			updatedAt := f.UpdatedAt
			if updatedAt.IsZero() {
				updatedAt = now
			}
			if _, err := stmt.Exec(f.ProjectID, f.Path, f.Content, f.Language, formatTime(updatedAt)); err != nil {
				return fmt.Errorf("upsert file %s: %w", f.Path, err)
			}
		}
		return nil
	})
}

// GetProjectFiles returns every file stored for a project, ordered by path.
func (s *Store) GetProjectFiles(projectID string) ([]ProjectFile, error) {
	rows, err := s.Query(`
		SELECT project_id, path, content, language, updated_at
		FROM project_files WHERE project_id = ? ORDER BY path
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project files: %w", err)
	}
	defer rows.Close()

	var files []ProjectFile
	for rows.Next() {
		var f ProjectFile
		var updatedAt string
		if err := rows.Scan(&f.ProjectID, &f.Path, &f.Content, &f.Language, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.UpdatedAt, _ = parseTime(updatedAt)
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetFile returns one file row. Returns nil when no row exists.
func (s *Store) GetFile(projectID, path string) (*ProjectFile, error) {
	row := s.QueryRow(`
		SELECT project_id, path, content, language, updated_at
		FROM project_files WHERE project_id = ? AND path = ?
	`, projectID, path)

	var f ProjectFile
	var updatedAt string
	err := row.Scan(&f.ProjectID, &f.Path, &f.Content, &f.Language, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	f.UpdatedAt, _ = parseTime(updatedAt)
	return &f, nil
}

// CountProjectFiles returns how many files a project has stored.
func (s *Store) CountProjectFiles(projectID string) (int, error) {
	var n int
	row := s.QueryRow(`SELECT COUNT(*) FROM project_files WHERE project_id = ?`, projectID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count project files: %w", err)
	}
	return n, nil
}
