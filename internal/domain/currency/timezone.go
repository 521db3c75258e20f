package currency

import "strings"

// timezoneRule maps a timezone identifier fragment to a currency code.
// Rules are checked in order; the first match wins, so specific African
// zones come before the broad continent prefixes.
type timezoneRule struct {
	fragment string
	code     string
}

var timezoneRules = []timezoneRule{
	{"Africa/Douala", "XAF"},
	{"Africa/Lagos", "NGN"},
	{"Africa/Accra", "GHS"},
	{"Africa/Nairobi", "KES"},
	{"Africa/Johannesburg", "ZAR"},
	{"Africa/Cairo", "EGP"},
	{"Africa/Casablanca", "MAD"},
	{"Europe/", "EUR"},
	{"America/", "USD"},
	{"Australia/", "AUD"},
}

// DetectFromTimezone infers a display currency from an IANA timezone
// identifier. Unmatched timezones default to the base currency.
func DetectFromTimezone(timezone string) string {
	for _, rule := range timezoneRules {
		if strings.Contains(timezone, rule.fragment) {
			return rule.code
		}
	}
	return BaseCode
}
