package http

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// annotateID rewrites the storage-assigned _id as a plain "id" string;
// every other field passes through verbatim.
func annotateID(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				out["id"] = oid.Hex()
			} else {
				out["id"] = v
			}
			continue
		}
		out[k] = v
	}
	return out
}

var timestampFields = [...]string{"created_at", "updated_at"}

// normalizeTimestamps renders timestamp-typed created_at/updated_at as
// RFC 3339 strings; fields without a timestamp representation (already a
// string, missing, some other type) pass through unchanged.
func normalizeTimestamps(doc map[string]any) map[string]any {
	out := annotateID(doc)
	for _, f := range timestampFields {
		v, ok := out[f]
		if !ok {
			continue
		}
		if s, ok := timeString(v); ok {
			out[f] = s
		}
	}
	return out
}

func timeString(v any) (string, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339), true
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339), true
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC().Format(time.RFC3339), true
	}
	return "", false
}
