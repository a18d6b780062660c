package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retainly/churn/internal/domain/event"
	"github.com/retainly/churn/internal/domain/valueobject"
	"github.com/retainly/churn/pkg/events"
)

// Prediction is the aggregate root for one churn prediction. It is created
// unclassified; Classify applies the classifier output and derives the risk
// band, the 0/1 prediction and the retention guidance.
type Prediction struct {
	events.Collector

	id               uuid.UUID
	userID           uuid.UUID
	record           CustomerRecord
	churnProbability float64
	churnPrediction  int
	riskLevel        valueobject.RiskLevel
	recommendations  []string
	riskFactors      []string
	predictedAt      time.Time
	createdAt        time.Time
}

// ChurnThreshold is the probability at or above which a customer is predicted
// to churn.
const ChurnThreshold = 0.5

// NewPrediction creates an unclassified prediction for the given customer record.
func NewPrediction(userID uuid.UUID, record CustomerRecord) (*Prediction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user ID is required")
	}

	now := time.Now().UTC()
	return &Prediction{
		id:        uuid.New(),
		userID:    userID,
		record:    record,
		createdAt: now,
	}, nil
}

// Classify applies the classifier probability and the retention guidance.
// This is the core domain operation: it thresholds the 0/1 prediction,
// derives the risk band and emits domain events.
func (p *Prediction) Classify(probability float64, recommendations, riskFactors []string) error {
	if probability < 0 || probability > 1 {
		return fmt.Errorf("churn probability must be in [0,1], got %v", probability)
	}

	p.churnProbability = probability
	if probability >= ChurnThreshold {
		p.churnPrediction = 1
	} else {
		p.churnPrediction = 0
	}
	p.riskLevel = valueobject.RiskLevelFromProbability(probability)
	p.recommendations = recommendations
	p.riskFactors = riskFactors
	p.predictedAt = time.Now().UTC()

	p.Record(event.PredictionCompleted{
		PredictionID:     p.id,
		UserID:           p.userID,
		ChurnProbability: p.churnProbability,
		ChurnPrediction:  p.churnPrediction,
		RiskLevel:        p.riskLevel.String(),
		RiskFactors:      p.riskFactors,
		PredictedAt:      p.predictedAt,
	})

	if p.riskLevel.Equal(valueobject.RiskLevelHigh) {
		p.Record(event.HighRiskDetected{
			PredictionID:     p.id,
			UserID:           p.userID,
			ChurnProbability: p.churnProbability,
			RiskFactors:      p.riskFactors,
			DetectedAt:       p.predictedAt,
		})
	}

	return nil
}

// ReconstructPrediction rebuilds a Prediction from persisted data (no
// validation, no events).
func ReconstructPrediction(
	id, userID uuid.UUID,
	record CustomerRecord,
	churnProbability float64,
	churnPrediction int,
	riskLevel valueobject.RiskLevel,
	recommendations, riskFactors []string,
	predictedAt, createdAt time.Time,
) *Prediction {
	return &Prediction{
		id:               id,
		userID:           userID,
		record:           record,
		churnProbability: churnProbability,
		churnPrediction:  churnPrediction,
		riskLevel:        riskLevel,
		recommendations:  recommendations,
		riskFactors:      riskFactors,
		predictedAt:      predictedAt,
		createdAt:        createdAt,
	}
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                      { return p.id }
func (p *Prediction) UserID() uuid.UUID                  { return p.userID }
func (p *Prediction) CustomerRecord() CustomerRecord     { return p.record }
func (p *Prediction) ChurnProbability() float64          { return p.churnProbability }
func (p *Prediction) ChurnPrediction() int               { return p.churnPrediction }
func (p *Prediction) RiskLevel() valueobject.RiskLevel   { return p.riskLevel }
func (p *Prediction) Recommendations() []string          { return p.recommendations }
func (p *Prediction) RiskFactors() []string              { return p.riskFactors }
func (p *Prediction) PredictedAt() time.Time             { return p.predictedAt }
func (p *Prediction) CreatedAt() time.Time               { return p.createdAt }
