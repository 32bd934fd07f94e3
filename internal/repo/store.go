package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client       *mongo.Client
	DB           *mongo.Database
	colTasks     *mongo.Collection
	colUserTasks *mongo.Collection
	colProfiles  *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:       cli,
		DB:           db,
		colTasks:     db.Collection("tasks"),
		colUserTasks: db.Collection("user_tasks"),
		colProfiles:  db.Collection("profiles"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	// tasks: catalog is queried by module(+section) and by external task_id
	_, err := s.colTasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "module", Value: 1}, {Key: "section", Value: 1}},
			Options: options.Index().SetName("module_section"),
		},
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}},
			Options: options.Index().SetName("task_id"),
		},
	})
	if err != nil {
		return err
	}

	// user_tasks: (uid, task_id) is the document path; uid scoping is the
	// access-control boundary
	if _, err := s.colUserTasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "task_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_uid_task"),
	}); err != nil {
		return err
	}

	_, err = s.colProfiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_uid"),
	})
	return err
}
