package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"ambulink/pkg/locale"
)

// SanitizePhone formats a phone number as E.164. Numbers without a country
// code are tried against each service region in order. An unparseable
// number yields "".
func SanitizePhone(phone string) string {
	return SanitizePhoneIn(phone, locale.DefaultRegion)
}

// SanitizePhoneIn is SanitizePhone with region tried first.
func SanitizePhoneIn(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, r := range locale.RegionsFor(region) {
		parsedNumber, err := phonenumbers.Parse(phone, r)
		if err == nil {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
