package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/pkg/events"
)

// PredictionRepository defines the persistence port for predictions.
type PredictionRepository interface {
	// Save persists a classified prediction.
	Save(ctx context.Context, prediction *model.Prediction) error

	// FindByID retrieves a prediction by its unique identifier. Returns
	// (nil, nil) when no prediction exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)

	// Segments returns predictions grouped by risk band.
	Segments(ctx context.Context) ([]RiskSegment, error)

	// DailyCounts returns per-day prediction counts for the trailing window.
	DailyCounts(ctx context.Context, days int) ([]DailyCount, error)

	// Distribution returns prediction counts bucketed by probability
	// (rounded to one decimal).
	Distribution(ctx context.Context) ([]ProbabilityBucket, error)
}

// RiskSegment is a reporting read model: one risk band's aggregate.
type RiskSegment struct {
	Segment        string
	Count          int
	AvgProbability float64
}

// DailyCount is a reporting read model: predictions made on one day.
type DailyCount struct {
	Date  time.Time
	Count int
}

// ProbabilityBucket is a reporting read model: predictions whose probability
// rounds to Probability.
type ProbabilityBucket struct {
	Probability float64
	Count       int
}

// UserRepository defines the persistence port for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
