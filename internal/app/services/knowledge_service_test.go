package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/jobs"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

type fakeKnowledgeStore struct {
	items map[int64]*models.KnowledgeItem
}

func newFakeKnowledgeStore(items ...*models.KnowledgeItem) *fakeKnowledgeStore {
	m := make(map[int64]*models.KnowledgeItem, len(items))
	for _, item := range items {
		m[item.ID] = item
	}
	return &fakeKnowledgeStore{items: m}
}

func (f *fakeKnowledgeStore) Create(ctx context.Context, item *models.KnowledgeItem) (int64, error) {
	item.ID = int64(len(f.items) + 1)
	f.items[item.ID] = item
	return item.ID, nil
}

func (f *fakeKnowledgeStore) GetByID(ctx context.Context, id int64) (*models.KnowledgeItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrKnowledgeItemNotFound
	}
	return item, nil
}

func (f *fakeKnowledgeStore) List(ctx context.Context, page, pageSize int) ([]*models.KnowledgeItem, int64, error) {
	out := make([]*models.KnowledgeItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (f *fakeKnowledgeStore) SetJobID(ctx context.Context, id, jobID int64) error {
	f.items[id].JobID = &jobID
	return nil
}

func (f *fakeKnowledgeStore) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	item := f.items[id]
	if item.Status != models.KnowledgeStatusPending {
		return false, nil
	}
	item.Status = models.KnowledgeStatusProcessing
	return true, nil
}

func (f *fakeKnowledgeStore) Complete(ctx context.Context, id int64, content *models.KnowledgeContent) error {
	item := f.items[id]
	if item.Status != models.KnowledgeStatusProcessing {
		return apperrors.ErrKnowledgeItemNotFound
	}
	item.Status = models.KnowledgeStatusCompleted
	item.Content = content
	return nil
}

func (f *fakeKnowledgeStore) Fail(ctx context.Context, id int64) error {
	item := f.items[id]
	if item.Status != models.KnowledgeStatusProcessing {
		return apperrors.ErrKnowledgeItemNotFound
	}
	item.Status = models.KnowledgeStatusFailed
	return nil
}

type fakeJobQueue struct {
	jobs       map[int64]*jobs.Job
	nextID     int64
	enqueueErr error

	lastType        string
	lastMaxAttempts int
}

func newFakeJobQueue() *fakeJobQueue {
	return &fakeJobQueue{jobs: make(map[int64]*jobs.Job)}
}

func (f *fakeJobQueue) Enqueue(ctx context.Context, typ string, payload any, priority, maxAttempts int) (int64, error) {
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.jobs[f.nextID] = &jobs.Job{ID: f.nextID, Type: typ, Payload: b, Status: jobs.StatusQueued, MaxAttempts: maxAttempts}
	f.lastType = typ
	f.lastMaxAttempts = maxAttempts
	return f.nextID, nil
}

func (f *fakeJobQueue) GetByID(ctx context.Context, id int64) (*jobs.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, jobs.ErrJobNotFound
	}
	return j, nil
}

type fakeEnricher struct {
	content *models.KnowledgeContent
	err     error
	calls   int
}

func (f *fakeEnricher) Enrich(ctx context.Context, title, sourceRef string) (*models.KnowledgeContent, error) {
	f.calls++
	return f.content, f.err
}

func newKnowledgeService(store *fakeKnowledgeStore, queue *fakeJobQueue, enricher *fakeEnricher) *services.KnowledgeService {
	if enricher == nil {
		enricher = &fakeEnricher{}
	}
	return services.NewKnowledgeService(store, queue, enricher, zerolog.Nop())
}

func TestCreateKnowledgeItemEnqueuesSingleAttempt(t *testing.T) {
	store := newFakeKnowledgeStore()
	queue := newFakeJobQueue()
	svc := newKnowledgeService(store, queue, nil)

	resp, err := svc.Create(context.Background(), student(10), &dto.CreateKnowledgeItemRequest{
		Title: "DDIA ch. 5", SourceRef: "https://example.com/ddia", SourceType: "URL",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Status != "PENDING" {
		t.Fatalf("new item must be PENDING, got %s", resp.Status)
	}
	if resp.JobID == nil {
		t.Fatalf("job id missing from response")
	}
	if queue.lastType != services.JobTypeKnowledgeEnrich {
		t.Fatalf("unexpected job type %q", queue.lastType)
	}
	// enrichment failure is terminal, so the job gets exactly one attempt
	if queue.lastMaxAttempts != 1 {
		t.Fatalf("expected 1 max attempt, got %d", queue.lastMaxAttempts)
	}
}

func TestCreateKnowledgeItemSurvivesEnqueueFailure(t *testing.T) {
	store := newFakeKnowledgeStore()
	queue := newFakeJobQueue()
	queue.enqueueErr = errors.New("queue down")
	svc := newKnowledgeService(store, queue, nil)

	resp, err := svc.Create(context.Background(), student(10), &dto.CreateKnowledgeItemRequest{
		Title: "DDIA ch. 5", SourceRef: "https://example.com/ddia", SourceType: "URL",
	})
	if err != nil {
		t.Fatalf("create should succeed despite enqueue failure: %v", err)
	}
	if resp.Status != "PENDING" {
		t.Fatalf("item must stay PENDING, got %s", resp.Status)
	}
	if resp.JobID != nil {
		t.Fatalf("no job should be linked")
	}
}

func TestCreateKnowledgeItemUnknownSourceType(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeStore(), newFakeJobQueue(), nil)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateKnowledgeItemRequest{
		Title: "x", SourceRef: "y", SourceType: "PODCAST",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func enrichJob(t *testing.T, itemID int64) *jobs.Job {
	t.Helper()
	payload, err := json.Marshal(services.EnrichJobPayload{ItemID: itemID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &jobs.Job{ID: 1, Type: services.JobTypeKnowledgeEnrich, Payload: payload, MaxAttempts: 1}
}

func TestHandleEnrichJobCompletes(t *testing.T) {
	store := newFakeKnowledgeStore(&models.KnowledgeItem{
		ID: 1, Title: "DDIA", SourceRef: "https://example.com", Status: models.KnowledgeStatusPending,
	})
	enricher := &fakeEnricher{content: &models.KnowledgeContent{
		Summary:   "Replication strategies",
		KeyPoints: []string{"leaders", "followers"},
		Topics:    []string{"databases"},
	}}
	svc := newKnowledgeService(store, newFakeJobQueue(), enricher)

	if err := svc.HandleEnrichJob(context.Background(), enrichJob(t, 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	item := store.items[1]
	if item.Status != models.KnowledgeStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", item.Status)
	}
	if item.Content == nil || item.Content.Summary != "Replication strategies" {
		t.Fatalf("content not stored: %+v", item.Content)
	}
}

func TestHandleEnrichJobFailureIsTerminal(t *testing.T) {
	store := newFakeKnowledgeStore(&models.KnowledgeItem{
		ID: 1, Title: "DDIA", Status: models.KnowledgeStatusPending,
	})
	enricher := &fakeEnricher{err: errors.New("model unavailable")}
	svc := newKnowledgeService(store, newFakeJobQueue(), enricher)

	if err := svc.HandleEnrichJob(context.Background(), enrichJob(t, 1)); err == nil {
		t.Fatalf("handler must surface the enrichment error")
	}

	item := store.items[1]
	if item.Status != models.KnowledgeStatusFailed {
		t.Fatalf("expected FAILED, got %s", item.Status)
	}
	if item.Content != nil {
		t.Fatalf("failed item must not carry content")
	}
}

func TestHandleEnrichJobSkipsNonPendingItem(t *testing.T) {
	store := newFakeKnowledgeStore(&models.KnowledgeItem{
		ID: 1, Title: "DDIA", Status: models.KnowledgeStatusCompleted,
		Content: &models.KnowledgeContent{Summary: "done"},
	})
	enricher := &fakeEnricher{}
	svc := newKnowledgeService(store, newFakeJobQueue(), enricher)

	if err := svc.HandleEnrichJob(context.Background(), enrichJob(t, 1)); err != nil {
		t.Fatalf("re-delivered job must be a no-op: %v", err)
	}
	if enricher.calls != 0 {
		t.Fatalf("enricher must not run for a completed item")
	}
	// status never regresses
	if store.items[1].Status != models.KnowledgeStatusCompleted {
		t.Fatalf("status regressed to %s", store.items[1].Status)
	}
}

func TestJobStatusWithoutJob(t *testing.T) {
	store := newFakeKnowledgeStore(&models.KnowledgeItem{ID: 1, Status: models.KnowledgeStatusPending})
	svc := newKnowledgeService(store, newFakeJobQueue(), nil)

	_, err := svc.JobStatus(context.Background(), 1)
	if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found for unlinked item, got %v", err)
	}
}

func TestJobStatusReportsQueueState(t *testing.T) {
	ctx := context.Background()
	store := newFakeKnowledgeStore()
	queue := newFakeJobQueue()
	svc := newKnowledgeService(store, queue, nil)

	resp, err := svc.Create(ctx, student(10), &dto.CreateKnowledgeItemRequest{
		Title: "DDIA", SourceRef: "https://example.com", SourceType: "URL",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status, err := svc.JobStatus(ctx, resp.ID)
	if err != nil {
		t.Fatalf("job status: %v", err)
	}
	if status.Status != jobs.StatusQueued {
		t.Fatalf("expected queued job, got %s", status.Status)
	}
	if status.Type != services.JobTypeKnowledgeEnrich {
		t.Fatalf("unexpected job type %s", status.Type)
	}
}
