package pulse

import (
	"time"
	"unicode/utf8"
)

// PlaceholderTitle is the default title for a conversation before the model
// suggests a better one.
const PlaceholderTitle = "Nova conversa"

// seedTitleMaxRunes bounds the first-message truncation used as the initial title.
const seedTitleMaxRunes = 30

// Conversation is a persisted Pulse dialogue owned by one actor within one
// organization. Messages is the dialogue transcript, insertion order
// significant. Version supports optimistic concurrency on update.
type Conversation struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	Messages       []Message `json:"messages"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ConversationSummary is the list-view projection of a conversation.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationUpdate carries the fields written back at the end of a turn.
// Version must match the stored version or the update fails with ErrConflict.
type ConversationUpdate struct {
	Messages []Message
	Title    string
	Version  int
}

// AskRequest is the client-facing input for one conversational turn.
type AskRequest struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	Messages       []ClientMessage `json:"messages"`
}

// AskResponse is the client-facing result of one conversational turn.
type AskResponse struct {
	ConversationID string  `json:"conversation_id"`
	Title          string  `json:"title"`
	Response       Message `json:"response"`
}

// SeedTitle derives the initial title of a new conversation from the first
// user message: a truncation of its content, or the placeholder when the
// message is blank.
func SeedTitle(firstUserContent string) string {
	if firstUserContent == "" {
		return PlaceholderTitle
	}
	if utf8.RuneCountInString(firstUserContent) <= seedTitleMaxRunes {
		return firstUserContent
	}
	runes := []rune(firstUserContent)
	return string(runes[:seedTitleMaxRunes])
}
