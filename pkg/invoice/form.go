package invoice

import (
	"math"
	"net/url"
	"strconv"
)

// Validation messages surfaced to the form, keyed by field.
const (
	msgCustomerRequired = "Please select a customer."
	msgAmountPositive   = "Please enter an amount greater than $0."
	msgStatusInvalid    = "Please select an invoice status."
)

// maxAmount keeps amount*100 representable as exact int64 cents.
const maxAmount = 9e15

// FieldErrors maps a form field name to its validation messages, in the
// order the checks ran. Fields that passed are absent.
type FieldErrors map[string][]string

// State is the outcome of a mutation operation, echoed back to the form
// on failure. A non-empty Redirect signals the caller to navigate; no
// other field is set alongside it.
type State struct {
	Errors   FieldErrors `json:"errors,omitempty"`
	Message  string      `json:"message,omitempty"`
	Redirect string      `json:"-"`
}

// Fields holds a validated invoice form payload. Amount is the raw
// dollar value as entered; ToCents converts it for persistence.
type Fields struct {
	CustomerID string
	Amount     float64
	Status     string
}

// ToCents converts the entered amount to integer minor currency units.
func (f Fields) ToCents() int64 {
	return int64(math.Round(f.Amount * 100))
}

// ParseForm validates the flat form payload for a create or update.
// Every field is checked and all failures are reported together, so the
// form can re-render with the complete error set. The id and date are
// never part of the payload.
func ParseForm(payload url.Values) (Fields, FieldErrors) {
	errs := FieldErrors{}

	customerID := payload.Get("customerId")
	if customerID == "" {
		errs["customerId"] = append(errs["customerId"], msgCustomerRequired)
	}

	amount, err := strconv.ParseFloat(payload.Get("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) ||
		amount <= 0 || amount > maxAmount {
		errs["amount"] = append(errs["amount"], msgAmountPositive)
	}

	status := payload.Get("status")
	if status != StatusPending && status != StatusPaid {
		errs["status"] = append(errs["status"], msgStatusInvalid)
	}

	if len(errs) > 0 {
		return Fields{}, errs
	}
	return Fields{CustomerID: customerID, Amount: amount, Status: status}, nil
}
