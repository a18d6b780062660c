package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retainly/churn/internal/domain/event"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/valueobject"
)

func newUnclassifiedPrediction(t *testing.T) *model.Prediction {
	t.Helper()
	record, err := model.NewCustomerRecord(validInput())
	require.NoError(t, err)

	p, err := model.NewPrediction(uuid.New(), record)
	require.NoError(t, err)
	return p
}

func TestNewPrediction(t *testing.T) {
	p := newUnclassifiedPrediction(t)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.False(t, p.CreatedAt().IsZero())
	assert.True(t, p.RiskLevel().IsZero())
	assert.Empty(t, p.Events())
}

func TestNewPrediction_RequiresUser(t *testing.T) {
	record, err := model.NewCustomerRecord(validInput())
	require.NoError(t, err)

	_, err = model.NewPrediction(uuid.Nil, record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user ID is required")
}

func TestClassify_HighRisk(t *testing.T) {
	p := newUnclassifiedPrediction(t)

	err := p.Classify(0.85, []string{"call the customer"}, []string{"month_to_month_contract"})
	require.NoError(t, err)

	assert.Equal(t, 0.85, p.ChurnProbability())
	assert.Equal(t, 1, p.ChurnPrediction())
	assert.True(t, p.RiskLevel().Equal(valueobject.RiskLevelHigh))
	assert.False(t, p.PredictedAt().IsZero())

	evts := p.Events()
	require.Len(t, evts, 2)
	assert.Equal(t, event.EventTypePredictionCompleted, evts[0].EventType())
	assert.Equal(t, event.EventTypeHighRiskDetected, evts[1].EventType())
	assert.Equal(t, p.ID(), evts[0].AggregateID())
}

func TestClassify_LowRiskEmitsSingleEvent(t *testing.T) {
	p := newUnclassifiedPrediction(t)

	err := p.Classify(0.12, []string{"customer appears satisfied"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, p.ChurnPrediction())
	assert.True(t, p.RiskLevel().Equal(valueobject.RiskLevelLow))

	evts := p.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, event.EventTypePredictionCompleted, evts[0].EventType())
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		wantChurn   int
	}{
		{"just below threshold", 0.49, 0},
		{"at threshold", model.ChurnThreshold, 1},
		{"above threshold", 0.51, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newUnclassifiedPrediction(t)
			require.NoError(t, p.Classify(tt.probability, nil, nil))
			assert.Equal(t, tt.wantChurn, p.ChurnPrediction())
		})
	}
}

func TestClassify_RejectsOutOfRangeProbability(t *testing.T) {
	for _, probability := range []float64{-0.1, 1.1} {
		p := newUnclassifiedPrediction(t)
		err := p.Classify(probability, nil, nil)
		assert.Error(t, err)
	}
}

func TestReconstructPrediction(t *testing.T) {
	original := newUnclassifiedPrediction(t)
	require.NoError(t, original.Classify(0.42, []string{"monitor"}, []string{"no_tech_support"}))

	rebuilt := model.ReconstructPrediction(
		original.ID(), original.UserID(), original.CustomerRecord(),
		original.ChurnProbability(), original.ChurnPrediction(), original.RiskLevel(),
		original.Recommendations(), original.RiskFactors(),
		original.PredictedAt(), original.CreatedAt(),
	)

	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, original.ChurnProbability(), rebuilt.ChurnProbability())
	assert.True(t, rebuilt.RiskLevel().Equal(valueobject.RiskLevelMedium))
	assert.Empty(t, rebuilt.Events())
}
