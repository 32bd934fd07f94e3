package http

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeTimestamps(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2023, 11, 12, 9, 15, 0, 0, time.UTC)
	doc := map[string]any{
		"_id":        oid,
		"task_id":    "t-9",
		"created_at": primitive.NewDateTimeFromTime(when),
		"updated_at": "2023-11-13", // already a string: pass through
		"score":      42,
	}

	out := normalizeTimestamps(doc)

	if out["id"] != oid.Hex() {
		t.Fatalf("id=%v", out["id"])
	}
	if _, ok := out["_id"]; ok {
		t.Fatal("_id must be replaced by id")
	}
	if out["created_at"] != "2023-11-12T09:15:00Z" {
		t.Fatalf("created_at=%v", out["created_at"])
	}
	if out["updated_at"] != "2023-11-13" {
		t.Fatalf("updated_at=%v", out["updated_at"])
	}
	if out["score"] != 42 {
		t.Fatalf("score=%v", out["score"])
	}
	// input untouched
	if _, ok := doc["id"]; ok {
		t.Fatal("input map mutated")
	}
}

func TestTimeString(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if s, ok := timeString(when); !ok || s != "2024-01-02T03:04:05Z" {
		t.Fatalf("time.Time: %q %v", s, ok)
	}
	if s, ok := timeString(primitive.NewDateTimeFromTime(when)); !ok || s != "2024-01-02T03:04:05Z" {
		t.Fatalf("DateTime: %q %v", s, ok)
	}
	if _, ok := timeString("already a string"); ok {
		t.Fatal("strings have no timestamp representation")
	}
	if _, ok := timeString(123); ok {
		t.Fatal("ints have no timestamp representation")
	}
}
