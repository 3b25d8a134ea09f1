package store

import (
	"fmt"
	"time"
)

// Message is one stored conversation turn.
type Message struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendMessage stores a conversation turn and fills in its assigned ID.
func (s *Store) AppendMessage(m *Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	res, err := s.Exec(`
		INSERT INTO messages (project_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, m.ProjectID, m.Role, m.Content, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("message insert id: %w", err)
	}
	return nil
}

// RecentMessages returns up to limit of the project's newest messages in
// chronological order.
func (s *Store) RecentMessages(projectID string, limit int) ([]Message, error) {
	rows, err := s.Query(`
		SELECT id, project_id, role, content, created_at
		FROM messages WHERE project_id = ?
		ORDER BY id DESC LIMIT ?
	`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt, _ = parseTime(createdAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks newest-first; flip back to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
