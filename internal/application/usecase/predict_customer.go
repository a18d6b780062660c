package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/port"
	"github.com/retainly/churn/internal/domain/service"
	"github.com/retainly/churn/internal/domain/valueobject"
)

// PredictCustomer is the use case for scoring one customer record.
type PredictCustomer struct {
	classifier  port.Classifier
	encoder     *service.FeatureEncoder
	recommender *service.Recommender
	repo        port.PredictionRepository
	publisher   port.EventPublisher
	logger      *slog.Logger
}

// NewPredictCustomer creates a new PredictCustomer use case.
func NewPredictCustomer(
	classifier port.Classifier,
	encoder *service.FeatureEncoder,
	recommender *service.Recommender,
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *PredictCustomer {
	return &PredictCustomer{
		classifier:  classifier,
		encoder:     encoder,
		recommender: recommender,
		repo:        repo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute validates the request, runs the prediction pipeline and returns the
// response DTO. Invalid input surfaces as a model.ValidationError.
func (uc *PredictCustomer) Execute(ctx context.Context, userID uuid.UUID, req dto.PredictRequest) (dto.PredictResponse, error) {
	record, err := req.ToRecord()
	if err != nil {
		return dto.PredictResponse{}, err
	}
	return uc.PredictRecord(ctx, userID, record)
}

// PredictRecord runs the pipeline for an already-validated record: encode,
// infer, classify, persist, publish. The batch processor calls this per row.
//
// Persistence and event publication are best-effort: the prediction was
// already made, so a reporting-store or broker outage degrades reporting but
// does not fail the caller's request.
func (uc *PredictCustomer) PredictRecord(ctx context.Context, userID uuid.UUID, record model.CustomerRecord) (dto.PredictResponse, error) {
	prediction, err := model.NewPrediction(userID, record)
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("failed to create prediction: %w", err)
	}

	features := uc.encoder.Encode(record)

	probability, err := uc.classifier.Predict(ctx, features)
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("classifier inference failed: %w", err)
	}

	level := valueobject.RiskLevelFromProbability(probability)
	recommendations := uc.recommender.Recommendations(level)
	factors := uc.recommender.RiskFactors(record)

	if err := prediction.Classify(probability, recommendations, factors); err != nil {
		return dto.PredictResponse{}, fmt.Errorf("failed to classify prediction: %w", err)
	}

	if err := uc.repo.Save(ctx, prediction); err != nil {
		uc.logger.Warn("failed to save prediction",
			slog.String("prediction_id", prediction.ID().String()),
			slog.String("error", err.Error()),
		)
	}

	if evts := prediction.ClearEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.Warn("failed to publish prediction events",
				slog.String("prediction_id", prediction.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromPrediction(prediction), nil
}
