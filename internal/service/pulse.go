package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qorohq/qoro/internal/adapter/otel"
	"github.com/qorohq/qoro/internal/domain"
	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/port/broadcast"
	"github.com/qorohq/qoro/internal/port/database"
	"github.com/qorohq/qoro/internal/port/llm"
	"github.com/qorohq/qoro/internal/port/messagequeue"
	"github.com/qorohq/qoro/internal/resilience"
)

// hardMaxToolRounds bounds tool rounds regardless of configuration.
const hardMaxToolRounds = 3

// SubjectTurnCompleted and SubjectTurnFailed are the queue subjects turn
// lifecycle events are published on.
const (
	SubjectTurnCompleted = "pulse.turn.completed"
	SubjectTurnFailed    = "pulse.turn.failed"
)

// PulseService orchestrates one conversational turn: it loads or creates the
// conversation, drives the model through tool rounds, and persists the
// finished transcript.
type PulseService struct {
	store       database.Store
	generator   llm.Generator
	registry    *ToolRegistry
	breaker     *resilience.Breaker
	queue       messagequeue.Queue
	broadcaster broadcast.Broadcaster
	metrics     *otel.Metrics
	logger      *slog.Logger

	maxToolRounds int
	llmTimeout    time.Duration
}

// PulseOptions carries the optional collaborators of a PulseService.
type PulseOptions struct {
	Queue       messagequeue.Queue
	Broadcaster broadcast.Broadcaster
	Metrics     *otel.Metrics
}

// NewPulseService wires the orchestrator. maxToolRounds below zero is
// treated as zero; values above the hard cap are clamped.
func NewPulseService(
	store database.Store,
	generator llm.Generator,
	registry *ToolRegistry,
	breaker *resilience.Breaker,
	logger *slog.Logger,
	maxToolRounds int,
	llmTimeout time.Duration,
	opts PulseOptions,
) *PulseService {
	if maxToolRounds < 0 {
		maxToolRounds = 0
	}
	if maxToolRounds > hardMaxToolRounds {
		maxToolRounds = hardMaxToolRounds
	}
	b := opts.Broadcaster
	if b == nil {
		b = broadcast.Noop{}
	}
	return &PulseService{
		store:         store,
		generator:     generator,
		registry:      registry,
		breaker:       breaker,
		queue:         opts.Queue,
		broadcaster:   b,
		metrics:       opts.Metrics,
		logger:        logger,
		maxToolRounds: maxToolRounds,
		llmTimeout:    llmTimeout,
	}
}

// Ask runs one conversational turn for the given actor.
func (s *PulseService) Ask(ctx context.Context, actor user.Actor, req pulse.AskRequest) (*pulse.AskResponse, error) {
	start := time.Now()
	ctx = user.WithActor(ctx, actor)

	ctx, span := otel.StartTurnSpan(ctx, req.ConversationID, actor.ID)
	defer span.End()

	if s.metrics != nil {
		s.metrics.TurnsStarted.Add(ctx, 1)
	}

	resp, rounds, err := s.runTurn(ctx, actor, req)
	if err != nil {
		s.logger.Error("pulse turn failed",
			"conversation_id", req.ConversationID,
			"user_id", actor.ID,
			"error", err)
		if s.metrics != nil {
			s.metrics.TurnsFailed.Add(ctx, 1)
		}
		s.notify(ctx, actor, SubjectTurnFailed, turnEvent{
			ConversationID: req.ConversationID,
			Error:          err.Error(),
		})
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TurnsCompleted.Add(ctx, 1)
		s.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())
		s.metrics.ToolRounds.Record(ctx, int64(rounds))
	}
	s.notify(ctx, actor, SubjectTurnCompleted, turnEvent{
		ConversationID: resp.ConversationID,
		Title:          resp.Title,
		ToolRounds:     rounds,
	})

	return resp, nil
}

// runTurn is the state machine proper. It returns the response and the number
// of tool rounds executed.
func (s *PulseService) runTurn(ctx context.Context, actor user.Actor, req pulse.AskRequest) (*pulse.AskResponse, int, error) {
	// LOADING
	if len(req.Messages) == 0 {
		return nil, 0, fmt.Errorf("empty message list: %w", domain.ErrValidation)
	}
	history := pulse.NormalizeHistory(req.Messages)
	last := history[len(history)-1]
	if last.Role != pulse.RoleUser {
		return nil, 0, fmt.Errorf("last message must be from the user: %w", domain.ErrValidation)
	}

	conv, history, err := s.loadOrCreate(ctx, actor, req.ConversationID, history, last)
	if err != nil {
		return nil, 0, err
	}

	// GENERATING / TOOL_EXECUTING
	result, history, rounds, err := s.generateWithTools(ctx, history)
	if err != nil {
		return nil, rounds, err
	}
	if result.Answer == "" {
		return nil, rounds, fmt.Errorf("model produced no final answer: %w", domain.ErrUnavailable)
	}

	// FINALIZING
	answer := pulse.Message{Role: pulse.RoleAssistant, Content: result.Answer}
	history = append(history, answer)

	title := pulse.DecideTitle(result.SuggestedTitle, pulse.FirstUserContent(history), conv.Title)

	err = s.store.UpdateConversation(ctx, conv.ID, actor, pulse.ConversationUpdate{
		Messages: history,
		Title:    title,
		Version:  conv.Version,
	})
	if err != nil {
		return nil, rounds, fmt.Errorf("persist turn: %w", err)
	}

	return &pulse.AskResponse{
		ConversationID: conv.ID,
		Title:          title,
		Response:       answer,
	}, rounds, nil
}

// loadOrCreate resolves the conversation for this turn and returns the
// canonical working history. For an existing conversation the stored
// transcript is authoritative and only the new user message is appended.
func (s *PulseService) loadOrCreate(ctx context.Context, actor user.Actor, id string, history []pulse.Message, last pulse.Message) (*pulse.Conversation, []pulse.Message, error) {
	if id != "" {
		conv, err := s.store.GetConversation(ctx, id, actor)
		if err != nil {
			return nil, nil, err
		}
		working := make([]pulse.Message, 0, len(conv.Messages)+1)
		working = append(working, conv.Messages...)
		working = append(working, last)
		return conv, working, nil
	}

	conv := &pulse.Conversation{
		ID:             uuid.NewString(),
		OwnerID:        actor.ID,
		OrganizationID: actor.OrganizationID,
		Title:          pulse.SeedTitle(pulse.FirstUserContent(history)),
		Messages:       history,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, history, nil
}

// generateWithTools drives the model through at most maxToolRounds tool
// rounds. Each round appends one assistant message carrying the raw requests
// and one tool message per request, in request order.
func (s *PulseService) generateWithTools(ctx context.Context, history []pulse.Message) (*llm.Result, []pulse.Message, int, error) {
	defs := s.registry.Defs()

	result, err := s.generate(ctx, history, defs, 0)
	if err != nil {
		return nil, history, 0, err
	}

	rounds := 0
	for len(result.ToolRequests) > 0 && rounds < s.maxToolRounds {
		rounds++

		history = append(history, pulse.Message{
			Role:      pulse.RoleAssistant,
			ToolCalls: result.ToolRequests,
		})

		results := s.executeTools(ctx, result.ToolRequests)
		for _, r := range results {
			history = append(history, r.Message())
		}

		result, err = s.generate(ctx, history, defs, rounds)
		if err != nil {
			return nil, history, rounds, err
		}
	}

	return result, history, rounds, nil
}

// generate performs one model call behind the circuit breaker.
func (s *PulseService) generate(ctx context.Context, history []pulse.Message, defs []llm.ToolDef, round int) (*llm.Result, error) {
	genCtx := ctx
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}
	genCtx, span := otel.StartGenerateSpan(genCtx, round)
	defer span.End()

	var result *llm.Result
	err := s.breaker.Execute(func() error {
		var genErr error
		result, genErr = s.generator.Generate(genCtx, llm.Request{
			System:  systemPrompt,
			History: history,
			Tools:   defs,
		})
		return genErr
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("language model: %w", domain.ErrUnavailable)
		}
		return nil, fmt.Errorf("generate: %w", err)
	}
	return result, nil
}

func (s *PulseService) executeTools(ctx context.Context, reqs []pulse.ToolRequest) []pulse.ToolResult {
	results := s.registry.Execute(ctx, reqs)
	for _, r := range results {
		if s.metrics != nil {
			s.metrics.ToolCalls.Add(ctx, 1)
			if r.Error != "" {
				s.metrics.ToolFailures.Add(ctx, 1)
			}
		}
		if r.Error != "" {
			s.logger.Warn("tool call failed", "tool", r.Name, "error", r.Error)
		}
	}
	return results
}

// turnEvent is the payload published and broadcast when a turn settles.
type turnEvent struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title,omitempty"`
	ToolRounds     int    `json:"tool_rounds"`
	Error          string `json:"error,omitempty"`
}

// notify publishes the turn event to the queue and the websocket hub.
// Notification failures never fail the turn.
func (s *PulseService) notify(ctx context.Context, actor user.Actor, subject string, ev turnEvent) {
	ctx = context.WithoutCancel(ctx)

	if s.queue != nil {
		if data, err := json.Marshal(ev); err == nil {
			if err := s.queue.Publish(ctx, subject, data); err != nil {
				s.logger.Warn("publish turn event", "subject", subject, "error", err)
			}
		}
	}

	s.broadcaster.Broadcast(ctx, broadcast.Event{
		Type:           subject,
		UserID:         actor.ID,
		OrganizationID: actor.OrganizationID,
		Payload:        ev,
	})
}

// Conversations lists the actor's conversations.
func (s *PulseService) Conversations(ctx context.Context, actor user.Actor) ([]pulse.ConversationSummary, error) {
	return s.store.ListConversations(ctx, actor)
}

// Conversation returns one conversation with its full transcript.
func (s *PulseService) Conversation(ctx context.Context, actor user.Actor, id string) (*pulse.Conversation, error) {
	return s.store.GetConversation(ctx, id, actor)
}

// DeleteConversation removes a conversation owned by the actor.
func (s *PulseService) DeleteConversation(ctx context.Context, actor user.Actor, id string) error {
	return s.store.DeleteConversation(ctx, id, actor)
}
