package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/hackernews"
)

type fakeAnnouncementStore struct {
	announcements []*models.Announcement
}

func (f *fakeAnnouncementStore) Create(ctx context.Context, a *models.Announcement) (int64, error) {
	a.ID = int64(len(f.announcements) + 1)
	f.announcements = append(f.announcements, a)
	return a.ID, nil
}

func (f *fakeAnnouncementStore) List(ctx context.Context, category *models.AnnouncementCategory, page, pageSize int) ([]*models.Announcement, int64, error) {
	out := make([]*models.Announcement, 0, len(f.announcements))
	for _, a := range f.announcements {
		if category != nil && a.Category != *category {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAnnouncementStore) ExistsTechNewsURL(ctx context.Context, url string) (bool, error) {
	for _, a := range f.announcements {
		if a.Category == models.AnnouncementCategoryTechNews && a.URL != nil && *a.URL == url {
			return true, nil
		}
	}
	return false, nil
}

type fakeNewsFeed struct {
	ids      []int64
	stories  map[int64]*hackernews.Story
	fetchErr map[int64]error
}

func (f *fakeNewsFeed) TopStoryIDs(ctx context.Context, limit int) ([]int64, error) {
	if limit < len(f.ids) {
		return f.ids[:limit], nil
	}
	return f.ids, nil
}

func (f *fakeNewsFeed) GetStory(ctx context.Context, id int64) (*hackernews.Story, error) {
	if err, ok := f.fetchErr[id]; ok {
		return nil, err
	}
	return f.stories[id], nil
}

func newAnnouncementService(store *fakeAnnouncementStore, feed *fakeNewsFeed) *services.AnnouncementService {
	if feed == nil {
		feed = &fakeNewsFeed{}
	}
	return services.NewAnnouncementService(store, feed, 20, zerolog.Nop())
}

func TestCreateAnnouncementUnknownCategory(t *testing.T) {
	svc := newAnnouncementService(&fakeAnnouncementStore{}, nil)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateAnnouncementRequest{
		Title: "Hello", Category: "SPAM",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAnnouncementEventLinkRequiresEventsCategory(t *testing.T) {
	svc := newAnnouncementService(&fakeAnnouncementStore{}, nil)
	eventID := int64(3)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateAnnouncementRequest{
		Title: "Hello", Category: "GENERAL", EventID: &eventID,
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for event link on GENERAL, got %v", err)
	}

	resp, err := svc.Create(context.Background(), student(10), &dto.CreateAnnouncementRequest{
		Title: "Meetup announced", Category: "EVENTS", EventID: &eventID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.EventID == nil || *resp.EventID != eventID {
		t.Fatalf("event link lost: %+v", resp)
	}
}

func TestCreateAnnouncementRecordsAuthor(t *testing.T) {
	store := &fakeAnnouncementStore{}
	svc := newAnnouncementService(store, nil)

	if _, err := svc.Create(context.Background(), student(10), &dto.CreateAnnouncementRequest{
		Title: "Hello", Category: "GENERAL",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.announcements[0].CreatedBy == nil || *store.announcements[0].CreatedBy != 10 {
		t.Fatalf("author not recorded: %+v", store.announcements[0])
	}
}

func TestRefreshTechNewsDeduplicatesByURL(t *testing.T) {
	existing := "https://example.com/story-1"
	store := &fakeAnnouncementStore{}
	src := "HackerNews"
	store.announcements = append(store.announcements, &models.Announcement{
		ID: 1, Title: "Seen before", URL: &existing, Source: &src,
		Category: models.AnnouncementCategoryTechNews,
	})

	feed := &fakeNewsFeed{
		ids: []int64{1, 2},
		stories: map[int64]*hackernews.Story{
			1: {ID: 1, Title: "Seen before", URL: existing},
			2: {ID: 2, Title: "Fresh story", URL: "https://example.com/story-2"},
		},
	}
	svc := newAnnouncementService(store, feed)

	result, err := svc.RefreshTechNews(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Fetched != 2 || result.Inserted != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(store.announcements) != 2 {
		t.Fatalf("expected 2 stored announcements, got %d", len(store.announcements))
	}
}

func TestRefreshTechNewsSkipsBrokenStories(t *testing.T) {
	feed := &fakeNewsFeed{
		ids: []int64{1, 2, 3, 4},
		stories: map[int64]*hackernews.Story{
			1: {ID: 1, Title: "No link"},                                  // missing URL
			2: {ID: 2, URL: "https://example.com/untitled"},               // missing title
			3: {ID: 3, Title: "Good", URL: "https://example.com/story-3"}, // kept
		},
		fetchErr: map[int64]error{4: errors.New("timeout")},
	}
	store := &fakeAnnouncementStore{}
	svc := newAnnouncementService(store, feed)

	result, err := svc.RefreshTechNews(context.Background())
	if err != nil {
		t.Fatalf("a per-story failure must not abort the run: %v", err)
	}
	if result.Inserted != 1 || result.Skipped != 3 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	a := store.announcements[0]
	if a.Category != models.AnnouncementCategoryTechNews {
		t.Fatalf("ingested story must be TECHNEWS, got %s", a.Category)
	}
	if a.Source == nil || *a.Source != "HackerNews" {
		t.Fatalf("source not recorded: %+v", a)
	}
}

func TestListAnnouncementsUnknownCategory(t *testing.T) {
	svc := newAnnouncementService(&fakeAnnouncementStore{}, nil)
	bad := "SPAM"

	_, err := svc.List(context.Background(), &dto.AnnouncementFilterRequest{Category: &bad, Page: 1, PageSize: 10})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListAnnouncementsFiltersByCategory(t *testing.T) {
	store := &fakeAnnouncementStore{}
	svc := newAnnouncementService(store, nil)
	ctx := context.Background()

	for _, req := range []*dto.CreateAnnouncementRequest{
		{Title: "General one", Category: "GENERAL"},
		{Title: "Event soon", Category: "EVENTS"},
	} {
		if _, err := svc.Create(ctx, student(10), req); err != nil {
			t.Fatalf("create %q: %v", req.Title, err)
		}
	}

	cat := "EVENTS"
	resp, err := svc.List(ctx, &dto.AnnouncementFilterRequest{Category: &cat, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Announcements) != 1 || resp.Announcements[0].Title != "Event soon" {
		t.Fatalf("filter not applied: %+v", resp.Announcements)
	}
}
