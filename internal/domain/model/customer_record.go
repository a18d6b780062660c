package model

import (
	"github.com/shopspring/decimal"

	"github.com/retainly/churn/internal/domain/valueobject"
)

// CustomerRecord is an immutable snapshot of one customer, created per request
// and discarded after the response.
type CustomerRecord struct {
	tenure          int
	monthlyCharges  decimal.Decimal
	totalCharges    decimal.Decimal
	contractType    valueobject.ContractType
	paymentMethod   valueobject.PaymentMethod
	internetService valueobject.InternetService
	streamingTV     int
	streamingMovies int
	techSupport     int
	onlineSecurity  int
}

// CustomerRecordInput carries the raw field values for a CustomerRecord.
// Categorical fields are validated against their closed enumerations.
type CustomerRecordInput struct {
	Tenure          int
	MonthlyCharges  decimal.Decimal
	TotalCharges    decimal.Decimal
	ContractType    string
	PaymentMethod   string
	InternetService string
	StreamingTV     int
	StreamingMovies int
	TechSupport     int
	OnlineSecurity  int
}

// NewCustomerRecord validates the input and constructs an immutable record.
// Unknown categorical values and out-of-range numerics fail with a
// ValidationError carrying the offending field.
func NewCustomerRecord(in CustomerRecordInput) (CustomerRecord, error) {
	if in.Tenure < 0 {
		return CustomerRecord{}, NewValidationError("tenure", "must not be negative, got %d", in.Tenure)
	}
	if in.MonthlyCharges.IsNegative() {
		return CustomerRecord{}, NewValidationError("monthly_charges", "must not be negative, got %s", in.MonthlyCharges)
	}
	if in.TotalCharges.IsNegative() {
		return CustomerRecord{}, NewValidationError("total_charges", "must not be negative, got %s", in.TotalCharges)
	}

	contract, err := valueobject.ContractTypeFromString(in.ContractType)
	if err != nil {
		return CustomerRecord{}, NewValidationError("contract_type", "%v", err)
	}
	payment, err := valueobject.PaymentMethodFromString(in.PaymentMethod)
	if err != nil {
		return CustomerRecord{}, NewValidationError("payment_method", "%v", err)
	}
	internet, err := valueobject.InternetServiceFromString(in.InternetService)
	if err != nil {
		return CustomerRecord{}, NewValidationError("internet_service", "%v", err)
	}

	for _, flag := range []struct {
		name  string
		value int
	}{
		{"streaming_tv", in.StreamingTV},
		{"streaming_movies", in.StreamingMovies},
		{"tech_support", in.TechSupport},
		{"online_security", in.OnlineSecurity},
	} {
		if flag.value != 0 && flag.value != 1 {
			return CustomerRecord{}, NewValidationError(flag.name, "must be 0 or 1, got %d", flag.value)
		}
	}

	return CustomerRecord{
		tenure:          in.Tenure,
		monthlyCharges:  in.MonthlyCharges,
		totalCharges:    in.TotalCharges,
		contractType:    contract,
		paymentMethod:   payment,
		internetService: internet,
		streamingTV:     in.StreamingTV,
		streamingMovies: in.StreamingMovies,
		techSupport:     in.TechSupport,
		onlineSecurity:  in.OnlineSecurity,
	}, nil
}

// --- Accessors ---

func (r CustomerRecord) Tenure() int                                  { return r.tenure }
func (r CustomerRecord) MonthlyCharges() decimal.Decimal              { return r.monthlyCharges }
func (r CustomerRecord) TotalCharges() decimal.Decimal                { return r.totalCharges }
func (r CustomerRecord) ContractType() valueobject.ContractType       { return r.contractType }
func (r CustomerRecord) PaymentMethod() valueobject.PaymentMethod     { return r.paymentMethod }
func (r CustomerRecord) InternetService() valueobject.InternetService { return r.internetService }
func (r CustomerRecord) StreamingTV() int                             { return r.streamingTV }
func (r CustomerRecord) StreamingMovies() int                         { return r.streamingMovies }
func (r CustomerRecord) TechSupport() int                             { return r.techSupport }
func (r CustomerRecord) OnlineSecurity() int                          { return r.onlineSecurity }

// ServicesCount is the number of add-on services the customer subscribes to.
func (r CustomerRecord) ServicesCount() int {
	return r.streamingTV + r.streamingMovies + r.techSupport + r.onlineSecurity
}
