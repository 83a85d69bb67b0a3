package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/clients/openai"
	"github.com/yungbote/circuitboard-backend/internal/composer"
	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/repos"
)

type ChatService interface {
	// Respond runs one chat turn: compose the circuit's prompt context
	// from the current settings and active content, then invoke the
	// model. The context is recomputed every turn, never cached.
	Respond(ctx context.Context, ownerUserID, circuitID uuid.UUID, message string) (string, error)
}

type chatService struct {
	log          *logger.Logger
	circuits     repos.CircuitRepo
	contentItems repos.ContentItemRepo
	composer     *composer.Composer
	model        openai.ModelClient
}

func NewChatService(log *logger.Logger, circuits repos.CircuitRepo, contentItems repos.ContentItemRepo, comp *composer.Composer, model openai.ModelClient) ChatService {
	return &chatService{
		log:          log.With("service", "ChatService"),
		circuits:     circuits,
		contentItems: contentItems,
		composer:     comp,
		model:        model,
	}
}

func (s *chatService) Respond(ctx context.Context, ownerUserID, circuitID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apierr.Validationf("message is required")
	}

	circuit, err := s.circuits.GetByID(ctx, nil, circuitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apierr.NotFoundf("circuit %s not found", circuitID)
		}
		return "", fmt.Errorf("get circuit: %w", err)
	}
	if circuit.OwnerUserID != ownerUserID {
		return "", apierr.NotFoundf("circuit %s not found", circuitID)
	}

	items, err := s.contentItems.ListActive(ctx, nil, circuit.ID)
	if err != nil {
		return "", fmt.Errorf("list active content: %w", err)
	}

	pc, err := s.composer.Compose(circuit, items)
	if err != nil {
		return "", err
	}

	reply, err := s.model.GenerateText(ctx, pc.Text, message)
	if err != nil {
		s.log.Warn("Model invocation failed", "circuit_id", circuit.ID, "error", err)
		return "", err
	}
	return reply, nil
}
