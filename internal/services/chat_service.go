// Package services – ChatService
//
// This file implements ChatService, which orchestrates one chat turn:
// resolve the agent under the visibility rules, assemble the stored system
// prompt with the user message, and delegate to the selected LLM provider.
// Provider failures are surfaced as ErrUpstream so the boundary maps them to
// a retryable 502, never a process-fatal condition.
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/llm"
)

// AgentResolver is the slice of AgentService that ChatService needs.
type AgentResolver interface {
	Get(ctx context.Context, user *domain.User, id uint) (*domain.Agent, error)
}

// ChatService forwards a user message plus an agent's stored prompt to the
// agent's LLM provider.
type ChatService struct {
	DB     *gorm.DB
	Agents AgentResolver
	LLM    *llm.Manager

	// DefaultProvider is used when an agent row carries no provider name.
	DefaultProvider string
}

// Answer runs one chat turn for user against agentID. Visibility is enforced
// through AgentResolver.Get (public, or owned). The prompt sent upstream is
// "<system prompt>\n\nUser: <message>\nAssistant:".
func (s *ChatService) Answer(ctx context.Context, user *domain.User, agentID uint, message string) (string, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.Int("agent.id", int(agentID)),
			attribute.Int("user.id", int(user.ID)),
		),
	)
	defer span.End()

	if message == "" {
		return "", ErrInvalidInput
	}

	agent, err := s.Agents.Get(ctx, user, agentID)
	if err != nil {
		return "", err
	}

	name := agent.Provider
	if name == "" {
		name = s.DefaultProvider
	}
	provider, err := s.LLM.Get(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	prompt := fmt.Sprintf("%s\n\nUser: %s\nAssistant:", agent.Prompt, message)
	reply, err := provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return reply, nil
}
