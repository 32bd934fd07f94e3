package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/tasks-service/internal/domain"
)

func (s *Store) GetProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.get",
		tracer.Tag("uid", uid),
	)
	defer sp.Finish()

	var p domain.Profile
	err := s.colProfiles.FindOne(ctx, bson.M{"uid": uid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return &p, nil
}

// UpsertProfile merges the given fields into the stored document; fields
// left empty are never cleared.
func (s *Store) UpsertProfile(ctx context.Context, p domain.Profile) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.upsert",
		tracer.Tag("uid", p.UID),
	)
	defer sp.Finish()

	set := bson.M{"uid": p.UID, "updated_at": time.Now().UTC()}
	if p.Email != "" {
		set["email"] = p.Email
	}
	if p.PhotoURL != "" {
		set["photo_url"] = p.PhotoURL
	}
	if p.StripeCustomerID != "" {
		set["stripe_customer_id"] = p.StripeCustomerID
	}

	_, err := s.colProfiles.UpdateOne(ctx,
		bson.M{"uid": p.UID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}

// SetStripeCustomerID links a processor customer to the profile, write-if-
// absent: the filter only matches documents without a stored id. With a
// linkage already in place the upsert degenerates into an insert and trips
// the unique uid index, so a racing second provisioning surfaces as an
// error and the stored id is never overwritten.
func (s *Store) SetStripeCustomerID(ctx context.Context, uid, customerID string) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.profile.set_customer",
		tracer.Tag("uid", uid),
	)
	defer sp.Finish()

	_, err := s.colProfiles.UpdateOne(ctx,
		bson.M{"uid": uid, "stripe_customer_id": bson.M{"$exists": false}},
		bson.M{
			"$set":         bson.M{"stripe_customer_id": customerID, "updated_at": time.Now().UTC()},
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}
