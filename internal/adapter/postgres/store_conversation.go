package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qorohq/qoro/internal/domain"
	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/domain/user"
)

func (s *Store) CreateConversation(ctx context.Context, c *pulse.Conversation) error {
	msgs, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO pulse_conversations (id, owner_id, organization_id, title, messages, version)
		 VALUES ($1, $2, $3, $4, $5, 1)
		 RETURNING version, created_at, updated_at`,
		c.ID, c.OwnerID, c.OrganizationID, c.Title, msgs,
	).Scan(&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (s *Store) GetConversation(ctx context.Context, id string, actor user.Actor) (*pulse.Conversation, error) {
	var (
		c    pulse.Conversation
		msgs []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, organization_id, title, messages, version, created_at, updated_at
		 FROM pulse_conversations
		 WHERE id = $1 AND owner_id = $2 AND organization_id = $3`,
		id, actor.ID, actor.OrganizationID,
	).Scan(&c.ID, &c.OwnerID, &c.OrganizationID, &c.Title, &msgs, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}
	if err := json.Unmarshal(msgs, &c.Messages); err != nil {
		return nil, fmt.Errorf("decode messages for %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) UpdateConversation(ctx context.Context, id string, actor user.Actor, upd pulse.ConversationUpdate) error {
	msgs, err := json.Marshal(upd.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE pulse_conversations
		 SET messages = $1, title = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $3 AND owner_id = $4 AND organization_id = $5 AND version = $6`,
		msgs, upd.Title, id, actor.ID, actor.OrganizationID, upd.Version)
	if err != nil {
		return fmt.Errorf("update conversation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a stale version from a missing row.
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pulse_conversations
			 WHERE id = $1 AND owner_id = $2 AND organization_id = $3)`,
			id, actor.ID, actor.OrganizationID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update conversation %s: %w", id, err)
		}
		if exists {
			return fmt.Errorf("update conversation %s: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("update conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListConversations(ctx context.Context, actor user.Actor) ([]pulse.ConversationSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, updated_at
		 FROM pulse_conversations
		 WHERE owner_id = $1 AND organization_id = $2
		 ORDER BY updated_at DESC`,
		actor.ID, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var result []pulse.ConversationSummary
	for rows.Next() {
		var c pulse.ConversationSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) DeleteConversation(ctx context.Context, id string, actor user.Actor) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM pulse_conversations
		 WHERE id = $1 AND owner_id = $2 AND organization_id = $3`,
		id, actor.ID, actor.OrganizationID)
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
