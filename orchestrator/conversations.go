package orchestrator

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

const titleMaxLen = 60

// Conversation is a row in `orchestrator.conversations`.
type Conversation struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Turn is a row in `orchestrator.conversation_turns`.
type Turn struct {
	ConversationID string    `db:"conversation_id"`
	Role           string    `db:"role"` // "user" or "assistant"
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
}

// ConversationDetail bundles a conversation with its turns in receipt
// order, per spec.md §5's ordering guarantee.
type ConversationDetail struct {
	Conversation
	Turns []Turn
}

// ConversationStore is the relational conversation repository,
// grounded on clips/repo.go's sqlx repository shape.
type ConversationStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewConversationStore wires a ConversationStore over an opened sqlx
// connection.
func NewConversationStore(db *sqlx.DB, timeout time.Duration) *ConversationStore {
	return &ConversationStore{db: db, timeout: timeout}
}

// CreateSchema idempotently creates the orchestrator conversation
// tables.
func (s *ConversationStore) CreateSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		CREATE SCHEMA IF NOT EXISTS orchestrator;
		CREATE TABLE IF NOT EXISTS orchestrator.conversations (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS orchestrator.conversation_turns (
			conversation_id TEXT NOT NULL REFERENCES orchestrator.conversations(id),
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_conversations_owner ON orchestrator.conversations(owner_id);
		CREATE INDEX IF NOT EXISTS idx_turns_conversation ON orchestrator.conversation_turns(conversation_id);
	`)
	return err
}

// defaultTitle derives a conversation title from the first user turn,
// per spec.md §4.6 ("titles default to a derivative of the first user
// turn").
func defaultTitle(firstUserTurn string) string {
	trimmed := strings.TrimSpace(firstUserTurn)
	if trimmed == "" {
		return "New conversation"
	}
	runes := []rune(trimmed)
	if len(runes) <= titleMaxLen {
		return trimmed
	}
	return string(runes[:titleMaxLen]) + "…"
}

// CreateConversation starts a new conversation owned by ownerID, titled
// from firstUserTurn, and appends that turn.
func (s *ConversationStore) CreateConversation(ctx context.Context, ownerID, firstUserTurn string) (*Conversation, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conv := Conversation{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   defaultTitle(firstUserTurn),
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO orchestrator.conversations (id, owner_id, title) VALUES ($1, $2, $3)`,
		conv.ID, conv.OwnerID, conv.Title); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "orchestrator.CreateConversation")
	}

	if apiErr := s.AppendTurn(ctx, conv.ID, "user", firstUserTurn); apiErr != nil {
		return nil, apiErr
	}

	return &conv, nil
}

// AppendTurn appends one turn to a conversation and bumps its updated_at.
func (s *ConversationStore) AppendTurn(ctx context.Context, conversationID, role, text string) *apperr.Error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO orchestrator.conversation_turns (conversation_id, role, text) VALUES ($1, $2, $3)`,
		conversationID, role, text); err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.AppendTurn")
	}
	if _, err := s.db.ExecContext(ctx, `
		UPDATE orchestrator.conversations SET updated_at = now() WHERE id = $1`, conversationID); err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.AppendTurn.touch")
	}
	return nil
}

// ListByOwner returns every conversation owned by ownerID, most
// recently updated first.
func (s *ConversationStore) ListByOwner(ctx context.Context, ownerID string) ([]Conversation, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var convs []Conversation
	if err := s.db.SelectContext(ctx, &convs, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM orchestrator.conversations WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "orchestrator.ListByOwner")
	}
	return convs, nil
}

// Get fetches a conversation's full detail, owner-scoped. A conversation
// that exists but belongs to a different owner returns not_found, same
// as one that doesn't exist at all, per spec.md §8's no-disclosure
// invariant.
func (s *ConversationStore) Get(ctx context.Context, ownerID, id string) (*ConversationDetail, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var conv Conversation
	err := s.db.GetContext(ctx, &conv, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM orchestrator.conversations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFoundConversation(id)
		}
		return nil, apperr.Wrap(err, apperr.Internal, "orchestrator.Get")
	}

	var turns []Turn
	if err := s.db.SelectContext(ctx, &turns, `
		SELECT conversation_id, role, text, created_at
		FROM orchestrator.conversation_turns WHERE conversation_id = $1 ORDER BY created_at ASC`, id); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "orchestrator.Get.turns")
	}

	return &ConversationDetail{Conversation: conv, Turns: turns}, nil
}

// Rename updates a conversation's title. Empty titles are rejected with
// bad_request; an unknown or not-owned id is not_found, per spec.md
// §4.6.
func (s *ConversationStore) Rename(ctx context.Context, ownerID, id, title string) *apperr.Error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return apperr.New(apperr.BadRequest, "orchestrator.Rename", "title must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE orchestrator.conversations SET title = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3`, trimmed, id, ownerID)
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.Rename")
	}
	return requireRowsAffected(res, id)
}

// Delete removes a conversation (and cascades its turns). An unknown or
// not-owned id is not_found.
func (s *ConversationStore) Delete(ctx context.Context, ownerID, id string) *apperr.Error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM orchestrator.conversation_turns
		WHERE conversation_id = (SELECT id FROM orchestrator.conversations WHERE id = $1 AND owner_id = $2)`,
		id, ownerID); err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.Delete.turns")
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM orchestrator.conversations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.Delete")
	}
	return requireRowsAffected(res, id)
}

func requireRowsAffected(res sql.Result, id string) *apperr.Error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "orchestrator.requireRowsAffected")
	}
	if n == 0 {
		return notFoundConversation(id)
	}
	return nil
}

func notFoundConversation(id string) *apperr.Error {
	return apperr.New(apperr.NotFound, "orchestrator.conversations", "conversation not found").
		WithConversation(id)
}
