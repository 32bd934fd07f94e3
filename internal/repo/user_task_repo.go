package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Per-user task documents live under the (uid, task_id) pair. Every query
// here carries both keys; nothing else enforces ownership.

func (s *Store) GetUserTask(ctx context.Context, uid, taskID string) (map[string]any, error) {
	var doc map[string]any
	err := s.colUserTasks.FindOne(ctx, bson.M{"uid": uid, "task_id": taskID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return doc, err
}

func (s *Store) DeleteUserTask(ctx context.Context, uid, taskID string) (bool, error) {
	res, err := s.colUserTasks.DeleteOne(ctx, bson.M{"uid": uid, "task_id": taskID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
