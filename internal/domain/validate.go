package domain

import (
	"regexp"
	"strings"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

var (
	countryCodeRe = regexp.MustCompile(`^\+\d{1,3}$`)
	phoneRe       = regexp.MustCompile(`^\d{10}$`)
)

// Validate checks the structured phone contact: country code like +91 and
// a 10-digit local number.
func (c ContactInfo) Validate() error {
	if !countryCodeRe.MatchString(c.CountryCode) {
		return apperr.Validationf("invalid country code format (e.g., +91, +1, +44)")
	}
	if !phoneRe.MatchString(c.PhoneNumber) {
		return apperr.Validationf("phone number must be exactly 10 digits")
	}
	return nil
}

func (s ShippingAddress) Validate() error {
	for _, f := range []string{s.Name, s.Address, s.City, s.PostalCode} {
		if strings.TrimSpace(f) == "" {
			return apperr.Validationf("all shipping address fields must be filled")
		}
	}
	return s.ContactInfo.Validate()
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.Address) == "" {
		return apperr.Validationf("location address is required")
	}
	return l.ContactInfo.Validate()
}
