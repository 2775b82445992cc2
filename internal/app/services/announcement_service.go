package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
	"github.com/edulink/mentorhub/internal/pkg/hackernews"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// techNewsSource tags announcements ingested from the news feed
const techNewsSource = "HackerNews"

// AnnouncementStore is the announcement persistence surface
type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) (int64, error)
	List(ctx context.Context, category *models.AnnouncementCategory, page, pageSize int) ([]*models.Announcement, int64, error)
	ExistsTechNewsURL(ctx context.Context, url string) (bool, error)
}

// NewsFeed is the external story source for TECHNEWS ingestion
type NewsFeed interface {
	TopStoryIDs(ctx context.Context, limit int) ([]int64, error)
	GetStory(ctx context.Context, id int64) (*hackernews.Story, error)
}

// AnnouncementService handles announcements and tech news ingestion
type AnnouncementService struct {
	announcementRepo AnnouncementStore
	feed             NewsFeed
	pageSize         int
	logger           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcementRepo AnnouncementStore, feed NewsFeed, pageSize int, logger zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		feed:             feed,
		pageSize:         pageSize,
		logger:           logger,
	}
}

// Create adds a manual announcement authored by the caller
func (s *AnnouncementService) Create(ctx context.Context, identity auth.Identity, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	category := models.AnnouncementCategory(req.Category)
	if !models.ValidAnnouncementCategory(category) {
		return nil, apperrors.NewValidationError("unknown announcement category")
	}
	if req.EventID != nil && category != models.AnnouncementCategoryEvents {
		return nil, apperrors.NewValidationError("event link requires the EVENTS category")
	}

	a := &models.Announcement{
		Title:       title,
		Description: req.Description,
		URL:         req.URL,
		Category:    category,
		EventID:     req.EventID,
		CreatedBy:   &identity.UserID,
	}
	if _, err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	resp := dto.ToAnnouncementResponse(a)
	return &resp, nil
}

// List retrieves announcements newest first, optionally filtered by category
func (s *AnnouncementService) List(ctx context.Context, filter *dto.AnnouncementFilterRequest) (*dto.AnnouncementListResponse, error) {
	var category *models.AnnouncementCategory
	if filter.Category != nil && *filter.Category != "" {
		c := models.AnnouncementCategory(*filter.Category)
		if !models.ValidAnnouncementCategory(c) {
			return nil, apperrors.NewValidationError("unknown announcement category")
		}
		category = &c
	}

	announcements, total, err := s.announcementRepo.List(ctx, category, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnnouncementListResponse{
		Announcements: make([]dto.AnnouncementResponse, 0, len(announcements)),
		Pagination:    helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, a := range announcements {
		resp.Announcements = append(resp.Announcements, dto.ToAnnouncementResponse(a))
	}

	return resp, nil
}

// RefreshTechNews pulls one page of top stories and inserts the unseen ones
// as TECHNEWS announcements. Stories missing a title or link are skipped, as
// are stories whose URL already exists. A failed per-story fetch is skipped
// silently rather than aborting the run.
func (s *AnnouncementService) RefreshTechNews(ctx context.Context) (*dto.TechNewsRefreshResponse, error) {
	ids, err := s.feed.TopStoryIDs(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}

	result := &dto.TechNewsRefreshResponse{Fetched: len(ids)}
	for _, id := range ids {
		story, err := s.feed.GetStory(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("story_id", id).Msg("Skipping story fetch failure")
			result.Skipped++
			continue
		}
		if story == nil || story.Title == "" || story.URL == "" {
			result.Skipped++
			continue
		}

		exists, err := s.announcementRepo.ExistsTechNewsURL(ctx, story.URL)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		source := techNewsSource
		url := story.URL
		a := &models.Announcement{
			Title:    story.Title,
			URL:      &url,
			Source:   &source,
			Category: models.AnnouncementCategoryTechNews,
		}
		if _, err := s.announcementRepo.Create(ctx, a); err != nil {
			return nil, err
		}
		result.Inserted++
	}

	s.logger.Info().
		Int("fetched", result.Fetched).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("Tech news refreshed")
	return result, nil
}

var _ AnnouncementStore = (*repositories.AnnouncementRepository)(nil)
