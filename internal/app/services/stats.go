package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/cache"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// ComputeStats counts a student's entries per status
func ComputeStats(entries []models.LogbookEntry) models.LogbookStats {
	stats := models.LogbookStats{Total: len(entries)}
	for _, entry := range entries {
		switch entry.Status {
		case models.EntryApproved:
			stats.Approved++
		case models.EntryPending:
			stats.Pending++
		case models.EntryDraft:
			stats.Draft++
		}
	}
	return stats
}

// StatsService defines the interface for logbook stats
type StatsService interface {
	// GetStats returns the student's entry counts, served from cache when fresh
	GetStats(ctx context.Context, studentID int64) (*models.LogbookStats, error)
	// InvalidateStats drops the student's cached stats. Called synchronously
	// after every logbook write so the next read recomputes.
	InvalidateStats(ctx context.Context, studentID int64)
}

// statsServiceImpl implements StatsService
type statsServiceImpl struct {
	logbookRepo repositories.LogbookRepository
	statsCache  cache.StatsCache
}

// NewStatsService creates a new StatsService
func NewStatsService(logbookRepo repositories.LogbookRepository, statsCache cache.StatsCache) StatsService {
	return &statsServiceImpl{
		logbookRepo: logbookRepo,
		statsCache:  statsCache,
	}
}

// GetStats returns the student's entry counts
func (s *statsServiceImpl) GetStats(ctx context.Context, studentID int64) (*models.LogbookStats, error) {
	cached, err := s.statsCache.Get(ctx, studentID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache degrades to recomputation, it never fails the read
		logger.Warn().Err(err).Int64("studentID", studentID).Msg("Stats cache read failed, recomputing")
	}

	entries, err := s.logbookRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading entries for stats: %w", err)
	}

	stats := ComputeStats(entries)
	if err := s.statsCache.Set(ctx, studentID, &stats); err != nil {
		logger.Warn().Err(err).Int64("studentID", studentID).Msg("Stats cache write failed")
	}
	return &stats, nil
}

// InvalidateStats drops the student's cached stats
func (s *statsServiceImpl) InvalidateStats(ctx context.Context, studentID int64) {
	if err := s.statsCache.Invalidate(ctx, studentID); err != nil {
		logger.Warn().Err(err).Int64("studentID", studentID).Msg("Stats cache invalidation failed")
	}
}
