package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/models"
	"github.com/homegrid/backend/internal/repositories"
)

// FeedService serves the recent-activity view. Read failures propagate so the
// dashboard can render a "could not load" state instead of an empty list.
type FeedService struct {
	activityRepo *repositories.ActivityLogRepo
	pageSize     int
	log          *zap.Logger
}

func NewFeedService(activityRepo *repositories.ActivityLogRepo, pageSize int, log *zap.Logger) *FeedService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &FeedService{activityRepo: activityRepo, pageSize: pageSize, log: log}
}

func (s *FeedService) Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	entries, err := s.activityRepo.List(ctx, limit)
	if err != nil {
		s.log.Error("failed to load activity log", zap.Error(err))
		return nil, err
	}
	return entries, nil
}
