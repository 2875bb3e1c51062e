// Package fare prices prospective bookings from the pricing settings.
package fare

import (
	"time"

	"ambulink/pkg/geo"
	"ambulink/pkg/model"
)

const (
	nightStartHour = 22
	nightEndHour   = 6
)

// requirementServices maps booking requirement tags to the additional
// service that prices them. Tags without an entry are matched by name.
var requirementServices = map[string]string{
	"Oxygen": "Oxygen Support",
}

// IsNight reports whether t falls between 22:00 and 06:00 in loc.
func IsNight(t time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	return hour >= nightStartHour || hour < nightEndHour
}

// Calculate quotes req against p. Distance is only charged when both ends
// carry coordinates; each distinct requirement is charged once.
func Calculate(p model.PricingSettings, req model.FareQuoteRequest, loc *time.Location) *model.FareQuote {
	quote := &model.FareQuote{
		BaseFare: p.BaseFare,
		Currency: p.Currency,
	}
	if quote.Currency == "" {
		quote.Currency = model.DefaultCurrency
	}

	if req.DropLocation != nil && req.PickupLocation.HasCoordinates() && req.DropLocation.HasCoordinates() {
		quote.DistanceKm = geo.RoundTo(geo.HaversineKm(
			req.PickupLocation.Longitude(), req.PickupLocation.Latitude(),
			req.DropLocation.Longitude(), req.DropLocation.Latitude(),
		), 2)
		quote.EstimatedMinutes = geo.EstimateMinutes(quote.DistanceKm)
		quote.DistanceCharge = geo.RoundTo(p.PerKmCharge*quote.DistanceKm, 2)
	}

	if req.BookingType == model.BookingTypeEmergency {
		quote.EmergencySurcharge = p.EmergencySurcharge
	}
	if IsNight(req.At, loc) {
		quote.NightSurcharge = p.NightSurcharge
	}

	seen := make(map[string]struct{}, len(req.Requirements))
	for _, r := range req.Requirements {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}

		name := r
		if mapped, ok := requirementServices[r]; ok {
			name = mapped
		}
		quote.ServicesCharge += p.ServicePrice(name)
	}

	quote.Total = geo.RoundTo(
		quote.BaseFare+quote.DistanceCharge+quote.EmergencySurcharge+quote.NightSurcharge+quote.ServicesCharge,
		2,
	)
	return quote
}
