package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter_Empty(t *testing.T) {
	if f := buildFilter(Query{}); len(f) != 0 {
		t.Errorf("empty query should produce empty filter, got %v", f)
	}
}

func TestBuildFilter_Statuses(t *testing.T) {
	f := buildFilter(Query{Statuses: []string{"pending"}})
	if f["status"] != "pending" {
		t.Errorf("single status should be an equality match, got %v", f["status"])
	}

	f = buildFilter(Query{Statuses: []string{"pending", "confirmed", "in-progress"}})
	in, ok := f["status"].(bson.M)
	if !ok {
		t.Fatalf("multiple statuses should use $in, got %T", f["status"])
	}
	if got := in["$in"].([]string); len(got) != 3 {
		t.Errorf("$in = %v", got)
	}
}

func TestBuildFilter_DateRange(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := EndOfDay(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))

	f := buildFilter(Query{From: &from, To: &to, BookingType: "emergency", User: "u1"})

	created := f["created_at"].(bson.M)
	if !created["$gte"].(time.Time).Equal(from) {
		t.Errorf("$gte = %v", created["$gte"])
	}
	if got := created["$lte"].(time.Time); got.Hour() != 23 || got.Nanosecond() != 999_000_000 {
		t.Errorf("$lte should be end of day, got %v", got)
	}
	if f["booking_type"] != "emergency" || f["user"] != "u1" {
		t.Errorf("unexpected filter: %v", f)
	}
}

func TestBuildFilter_SearchKeepsLiteralOr(t *testing.T) {
	f := buildFilter(Query{Search: &Search{
		Term:      "a.b (x)",
		UserIDs:   []string{"u1", "u2"},
		DriverIDs: []string{"d1"},
	}})

	or, ok := f["$or"].(bson.A)
	if !ok {
		t.Fatalf("$or missing: %v", f)
	}
	if len(or) != 5 {
		t.Fatalf("want 5 clauses (user, driver, patient, pickup, drop), got %d", len(or))
	}

	patient := or[2].(bson.M)["patient_details.name"].(bson.M)
	if patient["$regex"] != `a\.b \(x\)` {
		t.Errorf("term must be regex-quoted, got %v", patient["$regex"])
	}
	if patient["$options"] != "i" {
		t.Errorf("match must be case-insensitive")
	}
}

func TestBuildFilter_SearchWithoutIDs(t *testing.T) {
	f := buildFilter(Query{Search: &Search{Term: "ring road"}})
	if or := f["$or"].(bson.A); len(or) != 3 {
		t.Errorf("without resolved ids only the text clauses apply, got %d", len(or))
	}
}
