package model

// FeatureVector is the fixed-order numeric input the classifier consumes.
// Column order must match the training schema exactly; see FeatureNames.
type FeatureVector []float64

// FeatureNames lists the classifier's input columns in training order.
var FeatureNames = []string{
	"tenure",
	"monthly_charges",
	"total_charges",
	"contract_encoded",
	"payment_encoded",
	"internet_encoded",
	"streaming_tv",
	"streaming_movies",
	"tech_support",
	"online_security",
	"avg_monthly_charge",
	"contract_value",
	"services_count",
}

// FeatureCount is the expected vector length.
var FeatureCount = len(FeatureNames)
