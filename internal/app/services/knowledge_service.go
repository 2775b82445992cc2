package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/jobs"
	"github.com/edulink/mentorhub/internal/pkg/ai"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// JobTypeKnowledgeEnrich is the queue type for enrichment jobs
const JobTypeKnowledgeEnrich = "knowledge_enrich"

// KnowledgeStore is the knowledge persistence surface
type KnowledgeStore interface {
	Create(ctx context.Context, item *models.KnowledgeItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.KnowledgeItem, error)
	List(ctx context.Context, page, pageSize int) ([]*models.KnowledgeItem, int64, error)
	SetJobID(ctx context.Context, id, jobID int64) error
	MarkProcessing(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64, content *models.KnowledgeContent) error
	Fail(ctx context.Context, id int64) error
}

// JobQueue enqueues background jobs and exposes their state
type JobQueue interface {
	Enqueue(ctx context.Context, typ string, payload any, priority, maxAttempts int) (int64, error)
	GetByID(ctx context.Context, id int64) (*jobs.Job, error)
}

// EnrichJobPayload is the queued payload for an enrichment job
type EnrichJobPayload struct {
	ItemID int64 `json:"item_id"`
}

// KnowledgeService handles knowledge base items and their AI enrichment
type KnowledgeService struct {
	knowledgeRepo KnowledgeStore
	queue         JobQueue
	enricher      ai.Enricher
	logger        zerolog.Logger
}

// NewKnowledgeService creates a new KnowledgeService
func NewKnowledgeService(knowledgeRepo KnowledgeStore, queue JobQueue, enricher ai.Enricher, logger zerolog.Logger) *KnowledgeService {
	return &KnowledgeService{
		knowledgeRepo: knowledgeRepo,
		queue:         queue,
		enricher:      enricher,
		logger:        logger,
	}
}

// SetQueue attaches the job queue after construction. The worker pool needs
// this service's handler registered before it exists, so the queue is wired
// in a second step.
func (s *KnowledgeService) SetQueue(queue JobQueue) {
	s.queue = queue
}

// Create stores a PENDING item and enqueues its enrichment. The call returns
// immediately with the item and a job id; the caller polls status instead of
// waiting. Enrichment failure is terminal, so the job gets a single attempt.
func (s *KnowledgeService) Create(ctx context.Context, identity auth.Identity, req *dto.CreateKnowledgeItemRequest) (*dto.KnowledgeItemResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	sourceType := models.KnowledgeSourceType(req.SourceType)
	if !models.ValidKnowledgeSourceType(sourceType) {
		return nil, apperrors.NewValidationError("unknown source type")
	}

	item := &models.KnowledgeItem{
		Title:      title,
		SourceRef:  strings.TrimSpace(req.SourceRef),
		SourceType: sourceType,
		Status:     models.KnowledgeStatusPending,
		CreatedBy:  identity.UserID,
	}
	if _, err := s.knowledgeRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	jobID, err := s.queue.Enqueue(ctx, JobTypeKnowledgeEnrich, EnrichJobPayload{ItemID: item.ID}, 0, 1)
	if err != nil {
		// The item stays PENDING; a later sweep or manual requeue can pick
		// it up. Creation itself still succeeds.
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("Failed to enqueue enrichment")
	} else {
		item.JobID = &jobID
		if err := s.knowledgeRepo.SetJobID(ctx, item.ID, jobID); err != nil {
			s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("Failed to link enrichment job")
		}
	}

	resp := dto.ToKnowledgeItemResponse(item)
	return &resp, nil
}

// GetByID retrieves one knowledge item
func (s *KnowledgeService) GetByID(ctx context.Context, id int64) (*dto.KnowledgeItemResponse, error) {
	item, err := s.knowledgeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToKnowledgeItemResponse(item)
	return &resp, nil
}

// List retrieves knowledge items newest first
func (s *KnowledgeService) List(ctx context.Context, page, pageSize int) (*dto.KnowledgeListResponse, error) {
	items, total, err := s.knowledgeRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.KnowledgeListResponse{
		Items:      make([]dto.KnowledgeItemResponse, 0, len(items)),
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ToKnowledgeItemResponse(item))
	}

	return resp, nil
}

// JobStatus returns the enrichment job linked to a knowledge item
func (s *KnowledgeService) JobStatus(ctx context.Context, itemID int64) (*dto.EnrichmentJobResponse, error) {
	item, err := s.knowledgeRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.JobID == nil {
		return nil, apperrors.NewResourceNotFoundError("no enrichment job for this item")
	}

	job, err := s.queue.GetByID(ctx, *item.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return nil, apperrors.NewResourceNotFoundError("enrichment job not found")
		}
		return nil, err
	}

	return &dto.EnrichmentJobResponse{
		ID:        job.ID,
		Type:      job.Type,
		Status:    job.Status,
		Attempts:  job.Attempts,
		LastError: job.LastError,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}, nil
}

// HandleEnrichJob is the worker handler for enrichment jobs. It walks the
// item through PROCESSING and records the outcome in item state; errors after
// the state machine has moved are absorbed so the terminal FAILED status is
// what callers observe, not a retry.
func (s *KnowledgeService) HandleEnrichJob(ctx context.Context, job *jobs.Job) error {
	var payload EnrichJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid enrichment payload: %w", err)
	}

	item, err := s.knowledgeRepo.GetByID(ctx, payload.ItemID)
	if err != nil {
		return err
	}

	moved, err := s.knowledgeRepo.MarkProcessing(ctx, item.ID)
	if err != nil {
		return err
	}
	if !moved {
		// Item already left PENDING; nothing to do
		s.logger.Warn().Int64("item_id", item.ID).Str("status", string(item.Status)).Msg("Skipping enrichment, item not pending")
		return nil
	}

	content, err := s.enricher.Enrich(ctx, item.Title, item.SourceRef)
	if err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("Enrichment failed")
		if failErr := s.knowledgeRepo.Fail(ctx, item.ID); failErr != nil {
			s.logger.Error().Err(failErr).Int64("item_id", item.ID).Msg("Failed to mark item failed")
		}
		return err
	}

	if err := s.knowledgeRepo.Complete(ctx, item.ID, content); err != nil {
		return err
	}

	s.logger.Info().Int64("item_id", item.ID).Msg("Knowledge item enriched")
	return nil
}

var _ KnowledgeStore = (*repositories.KnowledgeRepository)(nil)
