package billing

import "context"

// Client is the narrow surface this service needs from the payment
// processor. The redirect URLs returned are processor-hosted pages.
type Client interface {
	CreateCustomer(ctx context.Context, email, uid string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}
