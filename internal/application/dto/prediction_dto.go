package dto

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retainly/churn/internal/domain/model"
)

// PredictRequest is the input DTO for a single churn prediction. Field names
// match the CSV header columns, so the batch row decoder reuses this type.
type PredictRequest struct {
	Tenure          int             `json:"tenure"`
	MonthlyCharges  decimal.Decimal `json:"monthly_charges"`
	TotalCharges    decimal.Decimal `json:"total_charges"`
	ContractType    string          `json:"contract_type"`
	PaymentMethod   string          `json:"payment_method"`
	InternetService string          `json:"internet_service"`
	StreamingTV     int             `json:"streaming_tv"`
	StreamingMovies int             `json:"streaming_movies"`
	TechSupport     int             `json:"tech_support"`
	OnlineSecurity  int             `json:"online_security"`
}

// ToRecord validates the request and builds the immutable domain record.
func (r PredictRequest) ToRecord() (model.CustomerRecord, error) {
	return model.NewCustomerRecord(model.CustomerRecordInput{
		Tenure:          r.Tenure,
		MonthlyCharges:  r.MonthlyCharges,
		TotalCharges:    r.TotalCharges,
		ContractType:    r.ContractType,
		PaymentMethod:   r.PaymentMethod,
		InternetService: r.InternetService,
		StreamingTV:     r.StreamingTV,
		StreamingMovies: r.StreamingMovies,
		TechSupport:     r.TechSupport,
		OnlineSecurity:  r.OnlineSecurity,
	})
}

// PredictResponse is the output DTO for a single prediction.
type PredictResponse struct {
	Success          bool      `json:"success"`
	PredictionID     uuid.UUID `json:"prediction_id"`
	ChurnProbability float64   `json:"churn_probability"`
	ChurnPrediction  int       `json:"churn_prediction"`
	RiskLevel        string    `json:"risk_level"`
	Color            string    `json:"color"`
	Recommendations  []string  `json:"recommendations"`
	RiskFactors      []string  `json:"risk_factors"`
	PredictedAt      time.Time `json:"predicted_at"`
}

// FromPrediction maps a classified Prediction aggregate to the response DTO.
// The probability is rounded to four decimals for presentation; band and
// threshold decisions were made on the unrounded value.
func FromPrediction(p *model.Prediction) PredictResponse {
	return PredictResponse{
		Success:          true,
		PredictionID:     p.ID(),
		ChurnProbability: math.Round(p.ChurnProbability()*10000) / 10000,
		ChurnPrediction:  p.ChurnPrediction(),
		RiskLevel:        p.RiskLevel().String(),
		Color:            p.RiskLevel().Color(),
		Recommendations:  p.Recommendations(),
		RiskFactors:      p.RiskFactors(),
		PredictedAt:      p.PredictedAt(),
	}
}

// RowError reports one batch row that failed decoding or validation.
// Row is the 1-based index over data rows (the header is row 0).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BatchSummary aggregates a batch run over successful rows only.
type BatchSummary struct {
	TotalCustomers      int     `json:"total_customers"`
	HighRisk            int     `json:"high_risk"`
	MediumRisk          int     `json:"medium_risk"`
	LowRisk             int     `json:"low_risk"`
	AvgChurnProbability float64 `json:"avg_churn_probability"`
}

// BatchResponse is the output DTO for a batch prediction run.
type BatchResponse struct {
	Success   bool              `json:"success"`
	Summary   BatchSummary      `json:"summary"`
	Results   []PredictResponse `json:"results"`
	RowErrors []RowError        `json:"row_errors"`
}
