package service

import (
	"github.com/retainly/churn/internal/domain/model"
)

// FeatureEncoder maps a validated CustomerRecord to the fixed-order numeric
// vector the classifier was trained on. Encoding is deterministic and has no
// side effects; categorical codes come from the value objects, which reject
// unknown labels at record construction.
type FeatureEncoder struct{}

// NewFeatureEncoder creates a FeatureEncoder.
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// Encode produces the 13-column feature vector in training order:
// tenure, monthly_charges, total_charges, contract_encoded, payment_encoded,
// internet_encoded, streaming_tv, streaming_movies, tech_support,
// online_security, avg_monthly_charge, contract_value, services_count.
func (e *FeatureEncoder) Encode(record model.CustomerRecord) model.FeatureVector {
	tenure := float64(record.Tenure())
	monthly := record.MonthlyCharges().InexactFloat64()
	total := record.TotalCharges().InexactFloat64()

	// Derived features, same formulas as the training pipeline. The +1 in the
	// average guards against zero tenure.
	avgMonthlyCharge := total / (tenure + 1)
	contractValue := monthly * tenure

	return model.FeatureVector{
		tenure,
		monthly,
		total,
		float64(record.ContractType().Code()),
		float64(record.PaymentMethod().Code()),
		float64(record.InternetService().Code()),
		float64(record.StreamingTV()),
		float64(record.StreamingMovies()),
		float64(record.TechSupport()),
		float64(record.OnlineSecurity()),
		avgMonthlyCharge,
		contractValue,
		float64(record.ServicesCount()),
	}
}
