package store

import (
	"fmt"
	"time"
)

// UsageRecord is the token spend of one generation turn.
type UsageRecord struct {
	ID           int64     `json:"id"`
	ProjectID    string    `json:"project_id"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordUsage stores one turn's token spend.
func (s *Store) RecordUsage(u *UsageRecord) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	res, err := s.Exec(`
		INSERT INTO usage (project_id, input_tokens, output_tokens, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ProjectID, u.InputTokens, u.OutputTokens, formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("usage insert id: %w", err)
	}
	return nil
}

// UsageTotals returns the summed token spend for a project.
func (s *Store) UsageTotals(projectID string) (inputTokens, outputTokens int64, err error) {
	row := s.QueryRow(`
		SELECT COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM usage WHERE project_id = ?
	`, projectID)
	if err := row.Scan(&inputTokens, &outputTokens); err != nil {
		return 0, 0, fmt.Errorf("usage totals: %w", err)
	}
	return inputTokens, outputTokens, nil
}
