package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// callerIDFromContext extracts the user ID from JWT claims in the context.
func callerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.UserID, nil
}

// Compile-time assertion that PredictionServiceHandler implements PredictionServiceServer.
var _ PredictionServiceServer = (*PredictionServiceHandler)(nil)

// PredictionServiceHandler implements the gRPC PredictionServiceServer interface.
type PredictionServiceHandler struct {
	UnimplementedPredictionServiceServer
	predict *usecase.PredictCustomer
	get     *usecase.GetPrediction
	logger  *slog.Logger
}

// NewPredictionServiceHandler creates a new gRPC handler.
func NewPredictionServiceHandler(
	predict *usecase.PredictCustomer,
	get *usecase.GetPrediction,
	logger *slog.Logger,
) *PredictionServiceHandler {
	return &PredictionServiceHandler{
		predict: predict,
		get:     get,
		logger:  logger,
	}
}

// Proto-aligned request/response message types.

// CustomerMsg represents the proto Customer message. Charges are decimal
// strings to avoid float drift on the wire.
type CustomerMsg struct {
	Tenure          int32  `json:"tenure"`
	MonthlyCharges  string `json:"monthly_charges"`
	TotalCharges    string `json:"total_charges"`
	ContractType    string `json:"contract_type"`
	PaymentMethod   string `json:"payment_method"`
	InternetService string `json:"internet_service"`
	StreamingTV     int32  `json:"streaming_tv"`
	StreamingMovies int32  `json:"streaming_movies"`
	TechSupport     int32  `json:"tech_support"`
	OnlineSecurity  int32  `json:"online_security"`
}

// PredictionMsg represents the proto Prediction message.
type PredictionMsg struct {
	ID               string   `json:"id"`
	ChurnProbability float64  `json:"churn_probability"`
	ChurnPrediction  int32    `json:"churn_prediction"`
	RiskLevel        string   `json:"risk_level"`
	Color            string   `json:"color"`
	Recommendations  []string `json:"recommendations"`
	RiskFactors      []string `json:"risk_factors"`
	PredictedAt      string   `json:"predicted_at"`
}

// PredictRequest represents the proto PredictRequest message.
type PredictRequest struct {
	Customer *CustomerMsg `json:"customer"`
}

// PredictResponse represents the proto PredictResponse message.
type PredictResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// GetPredictionRequest represents the proto GetPredictionRequest message.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// GetPredictionResponse represents the proto GetPredictionResponse message.
type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

func predictionMsg(result dto.PredictResponse) *PredictionMsg {
	return &PredictionMsg{
		ID:               result.PredictionID.String(),
		ChurnProbability: result.ChurnProbability,
		ChurnPrediction:  int32(result.ChurnPrediction),
		RiskLevel:        result.RiskLevel,
		Color:            result.Color,
		Recommendations:  result.Recommendations,
		RiskFactors:      result.RiskFactors,
		PredictedAt:      result.PredictedAt.Format(time.RFC3339),
	}
}

// Predict handles a single customer scoring request.
func (h *PredictionServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleAnalyst); err != nil {
		return nil, err
	}

	if req == nil || req.Customer == nil {
		return nil, status.Error(codes.InvalidArgument, "customer is required")
	}

	userID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	monthly, err := decimal.NewFromString(req.Customer.MonthlyCharges)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid monthly_charges: %v", err)
	}
	total, err := decimal.NewFromString(req.Customer.TotalCharges)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid total_charges: %v", err)
	}

	result, err := h.predict.Execute(ctx, userID, dto.PredictRequest{
		Tenure:          int(req.Customer.Tenure),
		MonthlyCharges:  monthly,
		TotalCharges:    total,
		ContractType:    req.Customer.ContractType,
		PaymentMethod:   req.Customer.PaymentMethod,
		InternetService: req.Customer.InternetService,
		StreamingTV:     int(req.Customer.StreamingTV),
		StreamingMovies: int(req.Customer.StreamingMovies),
		TechSupport:     int(req.Customer.TechSupport),
		OnlineSecurity:  int(req.Customer.OnlineSecurity),
	})
	if err != nil {
		if model.IsValidationError(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("failed to score customer", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &PredictResponse{Prediction: predictionMsg(result)}, nil
}

// GetPrediction handles a prediction lookup request.
func (h *PredictionServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleAnalyst); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.get.Execute(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrPredictionNotFound) {
			return nil, status.Error(codes.NotFound, "prediction not found")
		}
		h.logger.Error("failed to load prediction", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetPredictionResponse{Prediction: predictionMsg(result)}, nil
}
