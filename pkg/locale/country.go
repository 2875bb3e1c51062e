package locale

import (
	"strings"
)

const (
	DefaultRegion   = "IN"
	DefaultTimezone = "Asia/Kolkata"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "IN", "US")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Dialling prefixes, longest first where they overlap
	DefaultTimezone string   // IANA timezone identifier (e.g., "Asia/Kolkata")
}

var (
	Countries = map[string]Country{
		"IN": {
			Code:            "IN",
			Name:            "India",
			PhonePrefixes:   []string{"+91", "0091"},
			DefaultTimezone: "Asia/Kolkata",
		},
		"US": {
			Code:            "US",
			Name:            "United States",
			PhonePrefixes:   []string{"+1", "001"},
			DefaultTimezone: "America/New_York",
		},
	}

	// Regions lists the service regions in parsing priority order.
	Regions = []string{"IN", "US"}

	TimeZoneTags = map[string][]string{
		"IN": {"Asia/Kolkata", "Asia/Calcutta"},
		"US": {"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "US/Eastern", "US/Pacific"},
	}
)

// DetectRegion maps an IANA timezone to a service region, falling back to
// DefaultRegion.
func DetectRegion(tz string) string {
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return DefaultRegion
}

// RegionsFor returns Regions with the preferred region moved to the front.
func RegionsFor(preferred string) []string {
	out := make([]string, 0, len(Regions))
	if _, ok := Countries[preferred]; ok {
		out = append(out, preferred)
	}
	for _, r := range Regions {
		if r != preferred {
			out = append(out, r)
		}
	}
	return out
}
