package ml_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/service"
	"github.com/retainly/churn/internal/domain/valueobject"
	"github.com/retainly/churn/internal/infrastructure/ml"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadValidForest(t *testing.T) *ml.Forest {
	t.Helper()
	forest, err := ml.LoadForest(filepath.Join("testdata", "forest_valid.json"), testLogger())
	require.NoError(t, err)
	return forest
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forest.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func vectorWith(tenure, techSupport float64) model.FeatureVector {
	v := make(model.FeatureVector, model.FeatureCount)
	v[0] = tenure
	v[8] = techSupport
	return v
}

func TestLoadForest(t *testing.T) {
	forest := loadValidForest(t)
	assert.NotNil(t, forest)
}

func TestLoadForest_MissingFile(t *testing.T) {
	_, err := ml.LoadForest(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	assert.Error(t, err)
}

func TestLoadForest_CorruptJSON(t *testing.T) {
	path := writeArtifact(t, "{not json")
	_, err := ml.LoadForest(path, testLogger())
	assert.Error(t, err)
}

func TestLoadForest_WrongSchemaVersion(t *testing.T) {
	path := writeArtifact(t, `{"schema_version": 2, "model_type": "random_forest", "features": [], "trees": []}`)
	_, err := ml.LoadForest(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestLoadForest_WrongModelType(t *testing.T) {
	path := writeArtifact(t, `{"schema_version": 1, "model_type": "gradient_boosting", "features": [], "trees": []}`)
	_, err := ml.LoadForest(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model type")
}

func TestLoadForest_FeatureMismatch(t *testing.T) {
	path := writeArtifact(t, `{
		"schema_version": 1,
		"model_type": "random_forest",
		"features": ["tenure", "monthly_charges"],
		"trees": [{"nodes": [{"leaf": true, "value": 0.5}]}]
	}`)
	_, err := ml.LoadForest(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features")
}

func TestLoadForest_LeafValueOutOfRange(t *testing.T) {
	path := writeArtifact(t, `{
		"schema_version": 1,
		"model_type": "random_forest",
		"features": ["tenure", "monthly_charges", "total_charges", "contract_encoded",
			"payment_encoded", "internet_encoded", "streaming_tv", "streaming_movies",
			"tech_support", "online_security", "avg_monthly_charge", "contract_value",
			"services_count"],
		"trees": [{"nodes": [{"leaf": true, "value": 1.5}]}]
	}`)
	_, err := ml.LoadForest(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside [0,1]")
}

func TestLoadForest_ChildIndexBackwards(t *testing.T) {
	path := writeArtifact(t, `{
		"schema_version": 1,
		"model_type": "random_forest",
		"features": ["tenure", "monthly_charges", "total_charges", "contract_encoded",
			"payment_encoded", "internet_encoded", "streaming_tv", "streaming_movies",
			"tech_support", "online_security", "avg_monthly_charge", "contract_value",
			"services_count"],
		"trees": [{"nodes": [
			{"feature": 0, "threshold": 10, "left": 0, "right": 1, "leaf": false},
			{"leaf": true, "value": 0.5}
		]}]
	}`)
	_, err := ml.LoadForest(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "child index")
}

func TestPredict_AveragesTrees(t *testing.T) {
	forest := loadValidForest(t)

	// Short-tenure customer without tech support lands on 0.9 and 0.8.
	p, err := forest.Predict(context.Background(), vectorWith(12, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0.85, p, 1e-9)

	// Long-tenure customer with tech support lands on 0.2 and 0.1.
	p, err = forest.Predict(context.Background(), vectorWith(48, 1))
	require.NoError(t, err)
	assert.InDelta(t, 0.15, p, 1e-9)
}

func TestPredict_BoundaryRouting(t *testing.T) {
	forest := loadValidForest(t)

	// Thresholds route left on <=.
	p, err := forest.Predict(context.Background(), vectorWith(24, 1))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)
}

// TestShippedArtifact_HighRiskProfile runs the production artifact end to end
// for a short-tenure month-to-month customer on electronic check with fiber
// and no support or security add-ons. That profile must land in the High band
// with a full set of three recommendations.
func TestShippedArtifact_HighRiskProfile(t *testing.T) {
	forest, err := ml.LoadForest(filepath.Join("..", "..", "..", "models", "churn_forest.json"), testLogger())
	require.NoError(t, err)

	record, err := model.NewCustomerRecord(model.CustomerRecordInput{
		Tenure:          12,
		MonthlyCharges:  decimal.NewFromFloat(29.99),
		TotalCharges:    decimal.NewFromFloat(359.88),
		ContractType:    "Month-to-Month",
		PaymentMethod:   "Electronic check",
		InternetService: "Fiber optic",
		StreamingTV:     1,
		StreamingMovies: 1,
	})
	require.NoError(t, err)

	p, err := forest.Predict(context.Background(), service.NewFeatureEncoder().Encode(record))
	require.NoError(t, err)

	// Leaf path through the shipped trees: 0.82, 0.78, 0.72, 0.68.
	assert.InDelta(t, 0.75, p, 1e-9)

	level := valueobject.RiskLevelFromProbability(p)
	assert.Equal(t, valueobject.RiskLevelHigh, level)
	assert.Len(t, service.NewRecommender().Recommendations(level), 3)
}

// TestShippedArtifact_StableProfile is the counter-fixture: a long-tenure
// two-year customer with every add-on scores Low.
func TestShippedArtifact_StableProfile(t *testing.T) {
	forest, err := ml.LoadForest(filepath.Join("..", "..", "..", "models", "churn_forest.json"), testLogger())
	require.NoError(t, err)

	record, err := model.NewCustomerRecord(model.CustomerRecordInput{
		Tenure:          48,
		MonthlyCharges:  decimal.NewFromFloat(55.00),
		TotalCharges:    decimal.NewFromFloat(2640.00),
		ContractType:    "Two year",
		PaymentMethod:   "Bank transfer",
		InternetService: "DSL",
		StreamingTV:     1,
		StreamingMovies: 1,
		TechSupport:     1,
		OnlineSecurity:  1,
	})
	require.NoError(t, err)

	p, err := forest.Predict(context.Background(), service.NewFeatureEncoder().Encode(record))
	require.NoError(t, err)
	assert.Equal(t, valueobject.RiskLevelLow, valueobject.RiskLevelFromProbability(p))
}

func TestPredict_RejectsWrongVectorLength(t *testing.T) {
	forest := loadValidForest(t)

	_, err := forest.Predict(context.Background(), model.FeatureVector{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature vector")
}
