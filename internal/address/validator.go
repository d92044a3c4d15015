// Package address verifies customer addresses against the postal service and
// our delivery service area before a pickup/delivery booking is accepted.
package address

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/giftwrap-jax/service-booking/internal/domain"
)

// Input is the raw address submitted by the customer.
type Input struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Result is a successfully validated address. Warning is set when the postal
// service could not fully confirm the address but the ZIP is in our service
// area.
type Result struct {
	Normalized Input
	Warning    string
}

// Validator is the external postal validation contract.
type Validator interface {
	Validate(ctx context.Context, in Input) (*Result, error)
}

var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {}, "DC": {},
}

var (
	streetPattern = regexp.MustCompile(`^[a-zA-Z0-9\s.,#\-']+$`)
	cityPattern   = regexp.MustCompile(`^[a-zA-Z\s.\-']+$`)
	zipPattern    = regexp.MustCompile(`^\d{5}$`)
)

// Normalize trims and uppercases the fields that need it and validates field
// shape. Returns a validation error with a field-level message on failure.
func Normalize(in Input) (Input, error) {
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	in.Zip = strings.TrimSpace(in.Zip)

	if len(in.Street) < 5 || len(in.Street) > 100 || !streetPattern.MatchString(in.Street) {
		return Input{}, domain.NewValidationError("please enter a valid street address")
	}
	if len(in.City) < 2 || len(in.City) > 50 || !cityPattern.MatchString(in.City) {
		return Input{}, domain.NewValidationError("please enter a valid city")
	}
	if _, ok := usStates[in.State]; !ok {
		return Input{}, domain.NewValidationError("please enter a valid US state (e.g., FL)")
	}
	if !zipPattern.MatchString(in.Zip) {
		return Input{}, domain.NewValidationError("ZIP code must be exactly 5 digits")
	}
	return in, nil
}

// serviceAreaError is the rejection for ZIPs outside the service area.
func serviceAreaError() error {
	return domain.NewValidationError(
		"Sorry, we currently only serve the Oakleaf, Argyle, and Eagle Landing areas in Jacksonville.")
}

func inServiceArea(zip string, allowed []string) bool {
	for _, z := range allowed {
		if z == zip {
			return true
		}
	}
	return false
}

func mismatchError(field string) error {
	switch field {
	case "zip":
		return domain.NewValidationError("The ZIP code doesn't match the address. Please make sure your street/city and ZIP go together.")
	case "state":
		return domain.NewValidationError("The state doesn't match the address we found. Please double-check your state.")
	case "city":
		return domain.NewValidationError("The city doesn't match this ZIP and street. Please double-check your city name.")
	}
	return domain.NewValidationError(fmt.Sprintf("address field %s could not be verified", field))
}
