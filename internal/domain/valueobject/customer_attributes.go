package valueobject

import "fmt"

// Categorical customer attributes are closed enumerations. Each carries the
// integer code assigned during model training (labels were fit in sorted
// order), so the encoding here must stay in lockstep with the artifact's
// training pipeline. Unknown values are construction errors, never defaults.

// ContractType is the customer's contract commitment.
type ContractType struct {
	value string
	code  int
}

var (
	ContractMonthToMonth = ContractType{value: "Month-to-Month", code: 0}
	ContractOneYear      = ContractType{value: "One year", code: 1}
	ContractTwoYear      = ContractType{value: "Two year", code: 2}
)

// ContractTypeFromString parses a contract type label.
func ContractTypeFromString(s string) (ContractType, error) {
	switch s {
	case "Month-to-Month":
		return ContractMonthToMonth, nil
	case "One year":
		return ContractOneYear, nil
	case "Two year":
		return ContractTwoYear, nil
	default:
		return ContractType{}, fmt.Errorf("unknown contract type: %q", s)
	}
}

func (c ContractType) String() string { return c.value }
func (c ContractType) Code() int      { return c.code }
func (c ContractType) IsZero() bool   { return c.value == "" }

// PaymentMethod is how the customer pays.
type PaymentMethod struct {
	value string
	code  int
}

var (
	PaymentBankTransfer    = PaymentMethod{value: "Bank transfer", code: 0}
	PaymentCreditCard      = PaymentMethod{value: "Credit card", code: 1}
	PaymentElectronicCheck = PaymentMethod{value: "Electronic check", code: 2}
	PaymentMailedCheck     = PaymentMethod{value: "Mailed check", code: 3}
)

// PaymentMethodFromString parses a payment method label.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "Bank transfer":
		return PaymentBankTransfer, nil
	case "Credit card":
		return PaymentCreditCard, nil
	case "Electronic check":
		return PaymentElectronicCheck, nil
	case "Mailed check":
		return PaymentMailedCheck, nil
	default:
		return PaymentMethod{}, fmt.Errorf("unknown payment method: %q", s)
	}
}

func (p PaymentMethod) String() string { return p.value }
func (p PaymentMethod) Code() int      { return p.code }
func (p PaymentMethod) IsZero() bool   { return p.value == "" }

// InternetService is the customer's internet service tier.
type InternetService struct {
	value string
	code  int
}

var (
	InternetDSL   = InternetService{value: "DSL", code: 0}
	InternetFiber = InternetService{value: "Fiber optic", code: 1}
	InternetNone  = InternetService{value: "No", code: 2}
)

// InternetServiceFromString parses an internet service label.
func InternetServiceFromString(s string) (InternetService, error) {
	switch s {
	case "DSL":
		return InternetDSL, nil
	case "Fiber optic":
		return InternetFiber, nil
	case "No":
		return InternetNone, nil
	default:
		return InternetService{}, fmt.Errorf("unknown internet service: %q", s)
	}
}

func (i InternetService) String() string { return i.value }
func (i InternetService) Code() int      { return i.code }
func (i InternetService) IsZero() bool   { return i.value == "" }
