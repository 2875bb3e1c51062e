package locale

import (
	"reflect"
	"testing"
)

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{name: "India phone", phone: "+919876543210", wantCode: "IN"},
		{name: "India international prefix", phone: "00919876543210", wantCode: "IN"},
		{name: "US phone", phone: "+12125551234", wantCode: "US"},
		{name: "UK phone", phone: "+442071234567", wantNil: true},
		{name: "national number", phone: "9876543210", wantNil: true},
		{name: "empty phone", phone: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if got != nil {
					t.Errorf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("InferCountryFromPhone(%q) = nil, want %q", tt.phone, tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("InferCountryFromPhone(%q).Code = %q, want %q", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	if got := InferTimezoneFromPhone("+12125551234"); got != "America/New_York" {
		t.Errorf("US timezone = %q", got)
	}
	if got := InferTimezoneFromPhone("+442071234567"); got != DefaultTimezone {
		t.Errorf("unknown prefix should use default, got %q", got)
	}
}

func TestDetectRegion(t *testing.T) {
	tests := map[string]string{
		"Asia/Kolkata":        "IN",
		"asia/calcutta":       "IN",
		"America/Los_Angeles": "US",
		"Europe/Berlin":       DefaultRegion,
		"":                    DefaultRegion,
	}
	for tz, want := range tests {
		if got := DetectRegion(tz); got != want {
			t.Errorf("DetectRegion(%q) = %q, want %q", tz, got, want)
		}
	}
}

func TestRegionsFor(t *testing.T) {
	if got := RegionsFor("US"); !reflect.DeepEqual(got, []string{"US", "IN"}) {
		t.Errorf("RegionsFor(US) = %v", got)
	}
	if got := RegionsFor("GB"); !reflect.DeepEqual(got, Regions) {
		t.Errorf("unknown region should keep default order, got %v", got)
	}
}
