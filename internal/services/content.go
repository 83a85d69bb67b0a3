package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/clients/gcp"
	"github.com/yungbote/circuitboard-backend/internal/ingestion"
	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/repos"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

// UploadFile is one file from a multipart upload, already read into memory.
type UploadFile struct {
	Filename    string
	Title       string
	Description string
	Data        []byte
}

type ContentService interface {
	// UploadDocuments stores and extracts a batch of documents for a
	// circuit. Extraction degradation never fails the upload; an
	// unsupported extension fails the whole batch before anything is
	// stored.
	UploadDocuments(ctx context.Context, ownerUserID, circuitID uuid.UUID, files []UploadFile) ([]*types.ContentItem, error)
	// Transcribe converts an audio clip into a transcript item. Any
	// transcription failure aborts with nothing persisted.
	Transcribe(ctx context.Context, ownerUserID, circuitID uuid.UUID, audio []byte, mimeType string) (*types.ContentItem, error)
	Archive(ctx context.Context, ownerUserID, contentID uuid.UUID) (*types.ContentItem, error)
	ListActive(ctx context.Context, ownerUserID, circuitID uuid.UUID) ([]*types.ContentItem, error)
	DownloadURL(ctx context.Context, ownerUserID, contentID uuid.UUID) (string, error)
}

type contentService struct {
	db           *gorm.DB
	log          *logger.Logger
	circuits     repos.CircuitRepo
	contentItems repos.ContentItemRepo
	extractor    *ingestion.DocumentExtractor
	transcriber  *ingestion.Transcriber
	objects      gcp.ObjectStore

	extractParallelism int
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	circuits repos.CircuitRepo,
	contentItems repos.ContentItemRepo,
	extractor *ingestion.DocumentExtractor,
	transcriber *ingestion.Transcriber,
	objects gcp.ObjectStore,
) ContentService {
	return &contentService{
		db:                 db,
		log:                log.With("service", "ContentService"),
		circuits:           circuits,
		contentItems:       contentItems,
		extractor:          extractor,
		transcriber:        transcriber,
		objects:            objects,
		extractParallelism: 4,
	}
}

type extractedFile struct {
	file       UploadFile
	kind       ingestion.FileKind
	text       string
	degraded   bool
	storageKey string
}

func (s *contentService) UploadDocuments(ctx context.Context, ownerUserID, circuitID uuid.UUID, files []UploadFile) ([]*types.ContentItem, error) {
	if len(files) == 0 {
		return nil, apierr.Validationf("no files in upload")
	}
	circuit, err := s.getOwnedCircuit(ctx, ownerUserID, circuitID)
	if err != nil {
		return nil, err
	}

	// Validate every extension up front so a bad file rejects the batch
	// before any artifact is stored.
	prepared := make([]*extractedFile, len(files))
	for i, f := range files {
		kind, err := ingestion.KindFromFilename(f.Filename)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(f.Title) == "" {
			f.Title = strings.TrimSuffix(filepath.Base(f.Filename), filepath.Ext(f.Filename))
		}
		prepared[i] = &extractedFile{file: f, kind: kind}
	}

	// Store raw artifacts and run extraction with bounded parallelism.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.extractParallelism)
	for _, ef := range prepared {
		ef := ef
		g.Go(func() error {
			ef.storageKey = fmt.Sprintf("circuits/%s/content/%s/%s", circuit.ID, uuid.New(), filepath.Base(ef.file.Filename))
			if s.objects != nil {
				if err := s.objects.Put(gctx, ef.storageKey, bytes.NewReader(ef.file.Data), ef.kind.MimeType()); err != nil {
					return fmt.Errorf("store %s: %w", ef.file.Filename, err)
				}
			}
			ef.text, ef.degraded = s.extractor.Extract(gctx, ef.kind, ef.file.Filename, ef.file.Data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Append sequentially in upload order so creation timestamps preserve
	// the order the teacher chose.
	items := make([]*types.ContentItem, 0, len(prepared))
	for _, ef := range prepared {
		if ef.degraded {
			s.log.Warn("Content stored with empty extracted body", "circuit_id", circuit.ID, "file", ef.file.Filename)
		}
		item := &types.ContentItem{
			CircuitID:   circuit.ID,
			Title:       ef.file.Title,
			Description: strings.TrimSpace(ef.file.Description),
			Kind:        ef.kind.ContentKind(),
			Content:     ef.text,
			StorageKey:  ef.storageKey,
		}
		created, err := s.contentItems.Append(ctx, nil, item)
		if err != nil {
			return nil, fmt.Errorf("append content item: %w", err)
		}
		items = append(items, created)
	}
	return items, nil
}

func (s *contentService) Transcribe(ctx context.Context, ownerUserID, circuitID uuid.UUID, audio []byte, mimeType string) (*types.ContentItem, error) {
	circuit, err := s.getOwnedCircuit(ctx, ownerUserID, circuitID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return nil, err
	}

	item := &types.ContentItem{
		CircuitID: circuit.ID,
		Title:     transcript.Title,
		Kind:      types.ContentKindTranscript,
		Content:   transcript.Text,
	}
	created, err := s.contentItems.Append(ctx, nil, item)
	if err != nil {
		return nil, fmt.Errorf("append transcript item: %w", err)
	}
	s.log.Info("Transcript stored", "circuit_id", circuit.ID, "content_id", created.ID)
	return created, nil
}

func (s *contentService) Archive(ctx context.Context, ownerUserID, contentID uuid.UUID) (*types.ContentItem, error) {
	if _, err := s.getOwnedItem(ctx, ownerUserID, contentID); err != nil {
		return nil, err
	}
	archived, err := s.contentItems.Archive(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("archive content item: %w", err)
	}
	s.log.Info("Content item archived", "content_id", contentID)
	return archived, nil
}

func (s *contentService) ListActive(ctx context.Context, ownerUserID, circuitID uuid.UUID) ([]*types.ContentItem, error) {
	circuit, err := s.getOwnedCircuit(ctx, ownerUserID, circuitID)
	if err != nil {
		return nil, err
	}
	items, err := s.contentItems.ListActive(ctx, nil, circuit.ID)
	if err != nil {
		return nil, fmt.Errorf("list active content: %w", err)
	}
	return items, nil
}

func (s *contentService) DownloadURL(ctx context.Context, ownerUserID, contentID uuid.UUID) (string, error) {
	item, err := s.getOwnedItem(ctx, ownerUserID, contentID)
	if err != nil {
		return "", err
	}
	if item.StorageKey == "" {
		return "", apierr.Validationf("content item has no stored artifact")
	}
	if s.objects == nil {
		return "", apierr.Validationf("object storage not configured")
	}
	return s.objects.SignedURL(item.StorageKey, 15*time.Minute)
}

func (s *contentService) getOwnedCircuit(ctx context.Context, ownerUserID, circuitID uuid.UUID) (*types.Circuit, error) {
	circuit, err := s.circuits.GetByID(ctx, nil, circuitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("circuit %s not found", circuitID)
		}
		return nil, fmt.Errorf("get circuit: %w", err)
	}
	if circuit.OwnerUserID != ownerUserID {
		return nil, apierr.NotFoundf("circuit %s not found", circuitID)
	}
	return circuit, nil
}

func (s *contentService) getOwnedItem(ctx context.Context, ownerUserID, contentID uuid.UUID) (*types.ContentItem, error) {
	item, err := s.contentItems.GetByID(ctx, nil, contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("content item %s not found", contentID)
		}
		return nil, fmt.Errorf("get content item: %w", err)
	}
	if _, err := s.getOwnedCircuit(ctx, ownerUserID, item.CircuitID); err != nil {
		return nil, apierr.NotFoundf("content item %s not found", contentID)
	}
	return item, nil
}
