package queue

// Routing keys live on the "app.events" topic exchange.

type SessionIssued struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type SessionRevoked struct {
	UID string `json:"uid,omitempty"`
}

type CheckoutStarted struct {
	UID        string `json:"uid"`
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
}

type PortalOpened struct {
	UID        string `json:"uid"`
	CustomerID string `json:"customer_id"`
}
