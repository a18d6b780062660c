package service

import (
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/valueobject"
)

// Retention risk factor labels. Factors describe which attributes of the
// record drive churn risk; they accompany the recommendations but do not
// change them.
const (
	FactorMonthToMonthContract = "month_to_month_contract"
	FactorNoTechSupport        = "no_tech_support"
	FactorNoOnlineSecurity     = "no_online_security"
	FactorFiberOpticService    = "fiber_optic_service"
)

// recommendationsByLevel is the closed lookup table from risk band to the
// ordered retention playbook. Exactly three messages per band.
var recommendationsByLevel = map[string][]string{
	"High": {
		"Immediate retention intervention required",
		"Offer a loyalty discount or premium feature upgrade",
		"Schedule a personal call from the retention team",
	},
	"Medium": {
		"Monitor closely for changes in usage patterns",
		"Send a targeted re-engagement email campaign",
		"Offer upgrade incentives or bundled services",
	},
	"Low": {
		"Customer appears satisfied",
		"Continue monitoring engagement metrics",
		"Consider for the referral program",
	},
}

// Recommender derives retention guidance for a classified customer.
type Recommender struct{}

// NewRecommender creates a Recommender.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// Recommendations returns the ordered retention playbook for a risk band.
// The returned slice is a copy; callers may not mutate the table.
func (r *Recommender) Recommendations(level valueobject.RiskLevel) []string {
	templates := recommendationsByLevel[level.String()]
	out := make([]string, len(templates))
	copy(out, templates)
	return out
}

// RiskFactors inspects the record for attributes known to drive churn and
// returns them in a fixed order.
func (r *Recommender) RiskFactors(record model.CustomerRecord) []string {
	factors := make([]string, 0, 4)

	if record.ContractType() == valueobject.ContractMonthToMonth {
		factors = append(factors, FactorMonthToMonthContract)
	}
	if record.TechSupport() == 0 {
		factors = append(factors, FactorNoTechSupport)
	}
	if record.OnlineSecurity() == 0 {
		factors = append(factors, FactorNoOnlineSecurity)
	}
	if record.InternetService() == valueobject.InternetFiber {
		factors = append(factors, FactorFiberOpticService)
	}

	return factors
}
