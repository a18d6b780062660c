package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/port"
)

// ErrPredictionNotFound is returned when no prediction exists for the ID.
var ErrPredictionNotFound = errors.New("prediction not found")

// GetPrediction is the use case for retrieving a stored prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute retrieves a prediction by ID.
func (uc *GetPrediction) Execute(ctx context.Context, id uuid.UUID) (dto.PredictResponse, error) {
	prediction, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if prediction == nil {
		return dto.PredictResponse{}, ErrPredictionNotFound
	}
	return dto.FromPrediction(prediction), nil
}
