package repo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// The catalog is read-only from this service and schemaless: documents are
// returned as-is so fields added upstream pass straight through.

func (s *Store) ListTasks(ctx context.Context, module, section string) ([]map[string]any, error) {
	filter := bson.M{"module": module}
	if section = strings.TrimSpace(section); section != "" {
		filter["section"] = section
	}

	cur, err := s.colTasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []map[string]any{}
	for cur.Next(ctx) {
		var doc map[string]any
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

// FindTaskByTaskID looks up by the external task_id field, not by _id.
func (s *Store) FindTaskByTaskID(ctx context.Context, taskID string) (map[string]any, error) {
	var doc map[string]any
	err := s.colTasks.FindOne(ctx, bson.M{"task_id": taskID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return doc, err
}
