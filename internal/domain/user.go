package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the stored user document. The identity provider owns the uid;
// everything else is merged in lazily and may lag behind the provider.
type Profile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UID              string             `bson:"uid" json:"uid"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	PhotoURL         string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	StripeCustomerID string             `bson:"stripe_customer_id,omitempty" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt        time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CurrentUser is the per-request view of the caller: provider claims merged
// with the stored profile. Never persisted as-is. UID is always present.
type CurrentUser struct {
	UID              string `json:"uid"`
	Email            string `json:"email,omitempty"`
	PhotoURL         string `json:"photoURL,omitempty"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
}
