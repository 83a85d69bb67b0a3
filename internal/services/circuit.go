package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/clients/gcp"
	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/repos"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

type CircuitInput struct {
	Name             string   `json:"name"`
	Subject          string   `json:"subject"`
	Grade            string   `json:"grade"`
	TeachingStyles   []string `json:"teaching_styles"`
	HomeworkPolicies []string `json:"homework_policies"`
	ResponseTypes    []string `json:"response_types"`
	StateStandard    string   `json:"state_standard"`
}

type CircuitService interface {
	Create(ctx context.Context, ownerUserID uuid.UUID, input CircuitInput) (*types.Circuit, error)
	Get(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) (*types.Circuit, error)
	List(ctx context.Context, ownerUserID uuid.UUID) ([]*types.Circuit, error)
	Update(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID, input CircuitInput) (*types.Circuit, error)
	Delete(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) error
}

type circuitService struct {
	db           *gorm.DB
	log          *logger.Logger
	circuits     repos.CircuitRepo
	contentItems repos.ContentItemRepo
	objects      gcp.ObjectStore
}

func NewCircuitService(db *gorm.DB, log *logger.Logger, circuits repos.CircuitRepo, contentItems repos.ContentItemRepo, objects gcp.ObjectStore) CircuitService {
	return &circuitService{
		db:           db,
		log:          log.With("service", "CircuitService"),
		circuits:     circuits,
		contentItems: contentItems,
		objects:      objects,
	}
}

func (s *circuitService) Create(ctx context.Context, ownerUserID uuid.UUID, input CircuitInput) (*types.Circuit, error) {
	circuit, err := circuitFromInput(ownerUserID, input)
	if err != nil {
		return nil, err
	}
	created, err := s.circuits.Create(ctx, nil, circuit)
	if err != nil {
		return nil, fmt.Errorf("create circuit: %w", err)
	}
	s.log.Info("Circuit created", "circuit_id", created.ID, "owner_user_id", ownerUserID)
	return created, nil
}

func (s *circuitService) Get(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) (*types.Circuit, error) {
	return s.getOwned(ctx, nil, ownerUserID, id)
}

func (s *circuitService) List(ctx context.Context, ownerUserID uuid.UUID) ([]*types.Circuit, error) {
	circuits, err := s.circuits.GetByOwnerUserID(ctx, nil, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list circuits: %w", err)
	}
	return circuits, nil
}

func (s *circuitService) Update(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID, input CircuitInput) (*types.Circuit, error) {
	existing, err := s.getOwned(ctx, nil, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	updated, err := circuitFromInput(ownerUserID, input)
	if err != nil {
		return nil, err
	}
	existing.Name = updated.Name
	existing.Subject = updated.Subject
	existing.Grade = updated.Grade
	existing.TeachingStyles = updated.TeachingStyles
	existing.HomeworkPolicies = updated.HomeworkPolicies
	existing.ResponseTypes = updated.ResponseTypes
	existing.StateStandard = updated.StateStandard

	saved, err := s.circuits.Update(ctx, nil, existing)
	if err != nil {
		return nil, fmt.Errorf("update circuit: %w", err)
	}
	return saved, nil
}

// Delete removes a circuit and all of its content in one transaction:
// content rows first, then the circuit. Raw artifacts in the bucket are
// cleaned up best-effort after the transaction commits.
func (s *circuitService) Delete(ctx context.Context, ownerUserID uuid.UUID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, nil, ownerUserID, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contentItems.FullDeleteByCircuitID(ctx, tx, id); err != nil {
			return fmt.Errorf("delete circuit content: %w", err)
		}
		if err := s.circuits.FullDeleteByID(ctx, tx, id); err != nil {
			return fmt.Errorf("delete circuit: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.objects != nil {
		prefix := fmt.Sprintf("circuits/%s/", id)
		if derr := s.objects.DeleteByPrefix(ctx, prefix); derr != nil {
			s.log.Warn("Bucket cleanup failed after circuit delete", "circuit_id", id, "error", derr)
		}
	}
	s.log.Info("Circuit deleted", "circuit_id", id, "owner_user_id", ownerUserID)
	return nil
}

// getOwned loads a circuit and enforces ownership. A circuit owned by
// someone else reports not_found so existence is not leaked.
func (s *circuitService) getOwned(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID, id uuid.UUID) (*types.Circuit, error) {
	circuit, err := s.circuits.GetByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("circuit %s not found", id)
		}
		return nil, fmt.Errorf("get circuit: %w", err)
	}
	if circuit.OwnerUserID != ownerUserID {
		return nil, apierr.NotFoundf("circuit %s not found", id)
	}
	return circuit, nil
}

func circuitFromInput(ownerUserID uuid.UUID, input CircuitInput) (*types.Circuit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validationf("circuit name is required")
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apierr.Validationf("circuit subject is required")
	}
	if !types.ValidGrade(input.Grade) {
		return nil, apierr.Validationf("invalid grade band %q", input.Grade)
	}

	teaching, err := encodeTags("teaching_styles", input.TeachingStyles)
	if err != nil {
		return nil, err
	}
	homework, err := encodeTags("homework_policies", input.HomeworkPolicies)
	if err != nil {
		return nil, err
	}
	responses, err := encodeTags("response_types", input.ResponseTypes)
	if err != nil {
		return nil, err
	}

	return &types.Circuit{
		OwnerUserID:      ownerUserID,
		Name:             name,
		Subject:          subject,
		Grade:            input.Grade,
		TeachingStyles:   teaching,
		HomeworkPolicies: homework,
		ResponseTypes:    responses,
		StateStandard:    strings.TrimSpace(input.StateStandard),
	}, nil
}

func encodeTags(field string, tags []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, apierr.Validationf("%s must have at least one entry", field)
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", field, err)
	}
	return datatypes.JSON(raw), nil
}
