package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/chat"
	"github.com/recrutaai/recruta-backend/internal/llm"
)

// TranscriptStore persists conversation turns. It satisfies the conversation
// engine's transcript interface.
type TranscriptStore struct {
	db *DB
}

// Transcripts returns the conversation transcript store
func (db *DB) Transcripts() *TranscriptStore {
	return &TranscriptStore{db: db}
}

// Append records one turn at the end of a conversation
func (s *TranscriptStore) Append(ctx context.Context, conversationID uuid.UUID, turn chat.Turn) error {
	query := `
		INSERT INTO conversation_turns (conversation_id, role, text, at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.pool.Exec(ctx, query, conversationID, string(turn.Role), turn.Text, turn.At)
	if err != nil {
		return fmt.Errorf("failed to append conversation turn: %w", err)
	}
	return nil
}

// List returns a conversation's turns in chronological order
func (s *TranscriptStore) List(ctx context.Context, conversationID uuid.UUID) ([]chat.Turn, error) {
	query := `
		SELECT role, text, at
		FROM conversation_turns
		WHERE conversation_id = $1
		ORDER BY at ASC, seq ASC`

	rows, err := s.db.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var (
			turn chat.Turn
			role string
		)
		if err := rows.Scan(&role, &turn.Text, &turn.At); err != nil {
			return nil, fmt.Errorf("failed to scan conversation turn: %w", err)
		}
		turn.Role = llm.Role(role)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation turns: %w", err)
	}
	return turns, nil
}
