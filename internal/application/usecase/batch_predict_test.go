package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retainly/churn/internal/application/usecase"
)

const batchHeader = "tenure,monthly_charges,total_charges,contract_type,payment_method,internet_service,streaming_tv,streaming_movies,tech_support,online_security"

func newBatchUC(probability float64) *usecase.BatchPredict {
	predictor := newPredictUC(&stubClassifier{probability: probability}, &mockPredictionRepository{}, &mockEventPublisher{})
	return usecase.NewBatchPredict(predictor, testLogger())
}

func TestBatchPredict_AllRowsValid(t *testing.T) {
	csv := strings.Join([]string{
		batchHeader,
		"12,29.99,359.88,Month-to-Month,Electronic check,Fiber optic,1,1,0,0",
		"48,65.00,3120.00,Two year,Bank transfer,DSL,0,0,1,1",
		"3,80.10,240.30,Month-to-Month,Mailed check,Fiber optic,0,0,0,0",
	}, "\n")

	resp, err := newBatchUC(0.8).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Len(t, resp.Results, 3)
	assert.Empty(t, resp.RowErrors)
	assert.Equal(t, 3, resp.Summary.TotalCustomers)
	assert.Equal(t, 3, resp.Summary.HighRisk)
	assert.Equal(t, 0, resp.Summary.MediumRisk)
	assert.InDelta(t, 0.8, resp.Summary.AvgChurnProbability, 1e-9)
}

func TestBatchPredict_BadRowDoesNotAbortBatch(t *testing.T) {
	csv := strings.Join([]string{
		batchHeader,
		"12,29.99,359.88,Month-to-Month,Electronic check,Fiber optic,1,1,0,0",
		"24,50.00,1200.00,Quarterly,Credit card,DSL,0,0,1,1",
		"36,45.50,1638.00,One year,Credit card,DSL,0,0,1,1",
	}, "\n")

	resp, err := newBatchUC(0.4).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Len(t, resp.Results, 2)
	require.Len(t, resp.RowErrors, 1)
	assert.Equal(t, 2, resp.RowErrors[0].Row)
	assert.Contains(t, resp.RowErrors[0].Reason, "contract_type")

	assert.Equal(t, 2, resp.Summary.TotalCustomers, "summary counts successful rows only")
	assert.InDelta(t, 0.4, resp.Summary.AvgChurnProbability, 1e-9)
}

func TestBatchPredict_UnparsableNumbers(t *testing.T) {
	csv := strings.Join([]string{
		batchHeader,
		"twelve,29.99,359.88,Month-to-Month,Electronic check,Fiber optic,1,1,0,0",
	}, "\n")

	resp, err := newBatchUC(0.4).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	require.Len(t, resp.RowErrors, 1)
	assert.Contains(t, resp.RowErrors[0].Reason, "tenure")
	assert.Equal(t, 0.0, resp.Summary.AvgChurnProbability)
}

func TestBatchPredict_HeaderOrderFree(t *testing.T) {
	csv := strings.Join([]string{
		"customer_id,contract_type,tenure,monthly_charges,total_charges,payment_method,internet_service,streaming_tv,streaming_movies,tech_support,online_security",
		"c-100,One year,24,55.00,1320.00,Credit card,DSL,1,0,1,1",
	}, "\n")

	resp, err := newBatchUC(0.2).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Low", resp.Results[0].RiskLevel)
}

func TestBatchPredict_MissingColumn(t *testing.T) {
	csv := strings.Join([]string{
		"tenure,monthly_charges,total_charges,contract_type,payment_method,internet_service,streaming_tv,streaming_movies,tech_support",
		"12,29.99,359.88,Month-to-Month,Electronic check,Fiber optic,1,1,0",
	}, "\n")

	_, err := newBatchUC(0.5).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, usecase.IsUpstreamError(err))
	assert.Contains(t, err.Error(), "online_security")
}

func TestBatchPredict_EmptyUpload(t *testing.T) {
	_, err := newBatchUC(0.5).Execute(context.Background(), uuid.New(), strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, usecase.IsUpstreamError(err))
}

func TestBatchPredict_ShortRow(t *testing.T) {
	csv := strings.Join([]string{
		batchHeader,
		"12,29.99,359.88,Month-to-Month",
	}, "\n")

	resp, err := newBatchUC(0.5).Execute(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Len(t, resp.RowErrors, 1)
}
