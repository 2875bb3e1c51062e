package repository

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Query narrows booking reads. Zero-valued fields are ignored.
type Query struct {
	Statuses    []string
	BookingType string
	User        string
	Driver      string
	From        *time.Time
	To          *time.Time
	Search      *Search
}

// Search matches bookings whose requester or driver is among the resolved
// ids, or whose patient name, pickup or drop address contains Term. The
// clauses are OR-ed as given; overlapping id sets are not deduplicated.
type Search struct {
	Term      string
	UserIDs   []string
	DriverIDs []string
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}

	switch len(q.Statuses) {
	case 0:
	case 1:
		filter["status"] = q.Statuses[0]
	default:
		filter["status"] = bson.M{"$in": q.Statuses}
	}

	if q.BookingType != "" {
		filter["booking_type"] = q.BookingType
	}
	if q.User != "" {
		filter["user"] = q.User
	}
	if q.Driver != "" {
		filter["driver"] = q.Driver
	}

	if q.From != nil || q.To != nil {
		created := bson.M{}
		if q.From != nil {
			created["$gte"] = q.From.UTC()
		}
		if q.To != nil {
			created["$lte"] = q.To.UTC()
		}
		filter["created_at"] = created
	}

	if q.Search != nil && q.Search.Term != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search.Term), "$options": "i"}
		or := bson.A{}
		if len(q.Search.UserIDs) > 0 {
			or = append(or, bson.M{"user": bson.M{"$in": q.Search.UserIDs}})
		}
		if len(q.Search.DriverIDs) > 0 {
			or = append(or, bson.M{"driver": bson.M{"$in": q.Search.DriverIDs}})
		}
		or = append(or,
			bson.M{"patient_details.name": pattern},
			bson.M{"pickup_location.address": pattern},
			bson.M{"drop_location.address": pattern},
		)
		filter["$or"] = or
	}

	return filter
}

// EndOfDay extends a date-only upper bound to its last millisecond so the
// whole day is included.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
