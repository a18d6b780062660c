package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypePredictionCompleted is emitted for every successful prediction.
	EventTypePredictionCompleted = "churn.prediction.completed"

	// EventTypeHighRiskDetected is additionally emitted when a customer lands
	// in the High risk band, so retention tooling can react.
	EventTypeHighRiskDetected = "churn.high_risk.detected"
)

// PredictionCompleted is published when a churn prediction has been made.
type PredictionCompleted struct {
	PredictionID     uuid.UUID `json:"prediction_id"`
	UserID           uuid.UUID `json:"user_id"`
	ChurnProbability float64   `json:"churn_probability"`
	ChurnPrediction  int       `json:"churn_prediction"`
	RiskLevel        string    `json:"risk_level"`
	RiskFactors      []string  `json:"risk_factors"`
	PredictedAt      time.Time `json:"predicted_at"`
}

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string { return EventTypePredictionCompleted }

// AggregateID returns the prediction ID as the aggregate identifier.
func (e PredictionCompleted) AggregateID() uuid.UUID { return e.PredictionID }

// OccurredAt returns when the prediction was made.
func (e PredictionCompleted) OccurredAt() time.Time { return e.PredictedAt }

// HighRiskDetected is published when a customer is classified High risk.
type HighRiskDetected struct {
	PredictionID     uuid.UUID `json:"prediction_id"`
	UserID           uuid.UUID `json:"user_id"`
	ChurnProbability float64   `json:"churn_probability"`
	RiskFactors      []string  `json:"risk_factors"`
	DetectedAt       time.Time `json:"detected_at"`
}

// EventType returns the event type identifier.
func (e HighRiskDetected) EventType() string { return EventTypeHighRiskDetected }

// AggregateID returns the prediction ID as the aggregate identifier.
func (e HighRiskDetected) AggregateID() uuid.UUID { return e.PredictionID }

// OccurredAt returns when the high risk was detected.
func (e HighRiskDetected) OccurredAt() time.Time { return e.DetectedAt }
