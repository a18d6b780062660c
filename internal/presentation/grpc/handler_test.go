package grpc

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/port"
	"github.com/retainly/churn/internal/domain/service"
	"github.com/retainly/churn/pkg/auth"
	"github.com/retainly/churn/pkg/events"
)

// --- Mock implementations ---

type mockPredictionRepo struct {
	saveErr error
	stored  *model.Prediction
}

func (m *mockPredictionRepo) Save(_ context.Context, _ *model.Prediction) error {
	return m.saveErr
}

func (m *mockPredictionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
	if m.stored != nil && m.stored.ID() == id {
		return m.stored, nil
	}
	return nil, nil
}

func (m *mockPredictionRepo) Segments(_ context.Context) ([]port.RiskSegment, error) {
	return nil, nil
}

func (m *mockPredictionRepo) DailyCounts(_ context.Context, _ int) ([]port.DailyCount, error) {
	return nil, nil
}

func (m *mockPredictionRepo) Distribution(_ context.Context) ([]port.ProbabilityBucket, error) {
	return nil, nil
}

type mockEventPublisher struct {
	publishErr error
}

func (m *mockEventPublisher) Publish(_ context.Context, _ ...events.DomainEvent) error {
	return m.publishErr
}

type stubClassifier struct {
	probability float64
}

func (s stubClassifier) Predict(_ context.Context, _ model.FeatureVector) (float64, error) {
	return s.probability, nil
}

// --- Helpers ---

func contextWithClaims() context.Context {
	claims := &auth.Claims{
		UserID:   uuid.New(),
		Username: "analyst1",
		Roles:    []string{auth.RoleAnalyst},
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newHandler(probability float64, repo *mockPredictionRepo) *PredictionServiceHandler {
	predictUC := usecase.NewPredictCustomer(
		stubClassifier{probability: probability},
		service.NewFeatureEncoder(),
		service.NewRecommender(),
		repo,
		&mockEventPublisher{},
		testLogger(),
	)
	return NewPredictionServiceHandler(predictUC, usecase.NewGetPrediction(repo), testLogger())
}

func validCustomerMsg() *CustomerMsg {
	return &CustomerMsg{
		Tenure:          12,
		MonthlyCharges:  "29.99",
		TotalCharges:    "359.88",
		ContractType:    "Month-to-Month",
		PaymentMethod:   "Electronic check",
		InternetService: "Fiber optic",
		StreamingTV:     1,
		StreamingMovies: 1,
	}
}

// --- Tests ---

func TestPredict(t *testing.T) {
	handler := newHandler(0.85, &mockPredictionRepo{})

	resp, err := handler.Predict(contextWithClaims(), &PredictRequest{Customer: validCustomerMsg()})
	require.NoError(t, err)
	require.NotNil(t, resp.Prediction)

	assert.Equal(t, 0.85, resp.Prediction.ChurnProbability)
	assert.Equal(t, int32(1), resp.Prediction.ChurnPrediction)
	assert.Equal(t, "High", resp.Prediction.RiskLevel)
	assert.Equal(t, "red", resp.Prediction.Color)
	assert.Len(t, resp.Prediction.Recommendations, 3)
	assert.NotEmpty(t, resp.Prediction.PredictedAt)
}

func TestPredict_Unauthenticated(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	_, err := handler.Predict(context.Background(), &PredictRequest{Customer: validCustomerMsg()})
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestPredict_NilCustomer(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	_, err := handler.Predict(contextWithClaims(), &PredictRequest{})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPredict_InvalidDecimal(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	msg := validCustomerMsg()
	msg.MonthlyCharges = "lots"

	_, err := handler.Predict(contextWithClaims(), &PredictRequest{Customer: msg})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPredict_UnknownEnum(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	msg := validCustomerMsg()
	msg.ContractType = "Quarterly"

	_, err := handler.Predict(contextWithClaims(), &PredictRequest{Customer: msg})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetPrediction(t *testing.T) {
	record, err := model.NewCustomerRecord(model.CustomerRecordInput{
		Tenure:          12,
		ContractType:    "Month-to-Month",
		PaymentMethod:   "Electronic check",
		InternetService: "Fiber optic",
	})
	require.NoError(t, err)

	stored, err := model.NewPrediction(uuid.New(), record)
	require.NoError(t, err)
	require.NoError(t, stored.Classify(0.42, []string{"monitor"}, nil))

	handler := newHandler(0.42, &mockPredictionRepo{stored: stored})

	resp, err := handler.GetPrediction(contextWithClaims(), &GetPredictionRequest{ID: stored.ID().String()})
	require.NoError(t, err)
	require.NotNil(t, resp.Prediction)
	assert.Equal(t, stored.ID().String(), resp.Prediction.ID)
	assert.Equal(t, "Medium", resp.Prediction.RiskLevel)
}

func TestGetPrediction_NotFound(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	_, err := handler.GetPrediction(contextWithClaims(), &GetPredictionRequest{ID: uuid.NewString()})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetPrediction_InvalidID(t *testing.T) {
	handler := newHandler(0.5, &mockPredictionRepo{})

	_, err := handler.GetPrediction(contextWithClaims(), &GetPredictionRequest{ID: "not-a-uuid"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
