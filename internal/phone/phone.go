// Package phone validates phone numbers against a region's numbering plan
// and renders them in ITU-T E.123 international notation.
package phone

import (
	"github.com/nyaruka/phonenumbers"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Formatter validates and formats numbers using libphonenumber metadata.
// The zero value is ready to use.
type Formatter struct{}

// IsValid reports whether text parses under region and is a valid number in
// that numbering plan.
func (Formatter) IsValid(text, region string) bool {
	return IsValid(text, region)
}

// FormatInternational renders text in international format.
func (Formatter) FormatInternational(text, region string) (string, error) {
	return FormatInternational(text, region)
}

// IsValid reports whether text parses with region as the default region and
// passes the numbering plan's validity rules. Any parse failure is false.
func IsValid(text, region string) bool {
	num, err := parse(text, region)
	if err != nil {
		zap.L().Debug("phone: unparsable number",
			zap.String("number", text),
			zap.String("region", region),
			zap.Error(err),
		)
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// FormatInternational parses text with region as the default region and
// returns it as "+<country code> <national number>". Callers should check
// IsValid first; unparsable text returns an error.
func FormatInternational(text, region string) (string, error) {
	num, err := parse(text, region)
	if err != nil {
		return "", eris.Wrapf(err, "phone: format %q", text)
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), nil
}

// Normalize returns the international form of text when it is valid for
// region, and text unchanged otherwise. The bool reports validity.
func Normalize(text, region string) (string, bool) {
	if !IsValid(text, region) {
		return text, false
	}
	formatted, err := FormatInternational(text, region)
	if err != nil {
		return text, false
	}
	return formatted, true
}

// parse wraps phonenumbers.Parse, turning a panic on pathological input into
// an error.
func parse(text, region string) (num *phonenumbers.PhoneNumber, err error) {
	defer func() {
		if r := recover(); r != nil {
			num = nil
			err = eris.Errorf("phone: parse panic: %v", r)
		}
	}()

	num, err = phonenumbers.Parse(text, region)
	if err != nil {
		return nil, eris.Wrap(err, "phone: parse")
	}
	return num, nil
}
