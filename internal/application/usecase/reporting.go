package usecase

import (
	"context"
	"fmt"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/port"
)

// metricsWindowDays is the trailing window for daily prediction counts.
const metricsWindowDays = 30

// GetSegments is the use case for the customer segmentation view.
type GetSegments struct {
	repo port.PredictionRepository
}

// NewGetSegments creates a new GetSegments use case.
func NewGetSegments(repo port.PredictionRepository) *GetSegments {
	return &GetSegments{repo: repo}
}

// Execute returns predictions grouped by risk band.
func (uc *GetSegments) Execute(ctx context.Context) (dto.SegmentsResponse, error) {
	segments, err := uc.repo.Segments(ctx)
	if err != nil {
		return dto.SegmentsResponse{}, fmt.Errorf("failed to load segments: %w", err)
	}
	return dto.FromSegments(segments), nil
}

// GetMetrics is the use case for the system metrics view.
type GetMetrics struct {
	repo port.PredictionRepository
}

// NewGetMetrics creates a new GetMetrics use case.
func NewGetMetrics(repo port.PredictionRepository) *GetMetrics {
	return &GetMetrics{repo: repo}
}

// Execute returns daily prediction counts and the probability distribution.
func (uc *GetMetrics) Execute(ctx context.Context) (dto.MetricsResponse, error) {
	daily, err := uc.repo.DailyCounts(ctx, metricsWindowDays)
	if err != nil {
		return dto.MetricsResponse{}, fmt.Errorf("failed to load daily counts: %w", err)
	}
	dist, err := uc.repo.Distribution(ctx)
	if err != nil {
		return dto.MetricsResponse{}, fmt.Errorf("failed to load distribution: %w", err)
	}
	return dto.FromMetrics(daily, dist), nil
}
