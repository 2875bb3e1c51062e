package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lng1, lat1, lng2, lat2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 77.2090, 28.6139, 77.2090, 28.6139, 0, 1e-9},
		{"delhi to agra", 77.2090, 28.6139, 78.0081, 27.1767, 178, 3},
		{"one degree of latitude", 0, 0, 0, 1, 111.19, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lng1, tt.lat1, tt.lng2, tt.lat2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKm() = %.3f, want %.3f ± %.3f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(72.8777, 19.0760, 73.8567, 18.5204)
	b := HaversineKm(73.8567, 18.5204, 72.8777, 19.0760)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance should be symmetric: %f vs %f", a, b)
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0, 0},
		{-1, 0},
		{15, 30},
		{30, 60},
		{0.1, 1},
	}
	for _, tt := range tests {
		if got := EstimateMinutes(tt.km); got != tt.want {
			t.Errorf("EstimateMinutes(%v) = %d, want %d", tt.km, got, tt.want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{4.0, 1, 4.0},
		{4.25, 1, 4.3},
		{3.333333, 1, 3.3},
		{12.3456, 2, 12.35},
	}
	for _, tt := range tests {
		if got := RoundTo(tt.v, tt.places); got != tt.want {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestCoordinateRanges(t *testing.T) {
	if !ValidLongitude(-180) || ValidLongitude(180.1) {
		t.Error("longitude range should be [-180, 180]")
	}
	if !ValidLatitude(90) || ValidLatitude(-90.5) {
		t.Error("latitude range should be [-90, 90]")
	}
}
