package http

import "time"

// ErrorResponse is the wire format for every error the API returns.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IDResponse returns the identifier assigned to a newly created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// AddressPayload is a delivery address on the wire. Lat and Lng travel
// together or not at all.
type AddressPayload struct {
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2,omitempty"`
	City       string   `json:"city"`
	Region     string   `json:"region,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// MoneyPayload is a monetary value in the currency's minor units.
type MoneyPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// IngestLinePayload is one order line in an intake request.
type IngestLinePayload struct {
	SKU string `json:"sku"`
	Bin string `json:"bin"`
	Qty int    `json:"qty"`
}

// IngestOrderRequest is the intake payload for one upstream order.
type IngestOrderRequest struct {
	Reference    string              `json:"reference"`
	Channel      string              `json:"channel"`
	SourceNumber string              `json:"sourceNumber"`
	Contact      string              `json:"contact"`
	Shortcode    string              `json:"shortcode,omitempty"`
	Address      AddressPayload      `json:"address"`
	Value        MoneyPayload        `json:"value"`
	Priority     string              `json:"priority,omitempty"`
	Lines        []IngestLinePayload `json:"lines"`
	Totes        []string            `json:"totes"`
}

// OrderResponse is the order status projection.
type OrderResponse struct {
	ID                  string    `json:"id"`
	Reference           string    `json:"reference"`
	Channel             string    `json:"channel"`
	SourceNumber        string    `json:"sourceNumber"`
	Status              string    `json:"status"`
	Priority            string    `json:"priority"`
	VerificationOutcome string    `json:"verificationOutcome,omitempty"`
	ExceptionReason     string    `json:"exceptionReason,omitempty"`
	Courier             string    `json:"courier,omitempty"`
	AWB                 string    `json:"awb,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// TimelineEventResponse is one event in an order's history.
type TimelineEventResponse struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// RequestVerificationRequest opens an address verification attempt.
type RequestVerificationRequest struct {
	Shortcode string `json:"shortcode"`
}

// ConfirmAddressRequest is the customer's reply to a confirmation prompt.
// A nil address means the suggested address is correct.
type ConfirmAddressRequest struct {
	Address *AddressPayload `json:"address,omitempty"`
}

// PendingConfirmationResponse is one attempt awaiting a customer reply.
type PendingConfirmationResponse struct {
	AttemptID      string    `json:"attemptId"`
	OrderID        string    `json:"orderId"`
	OrderReference string    `json:"orderReference"`
	Contact        string    `json:"contact"`
	Shortcode      string    `json:"shortcode"`
	RequestedAt    time.Time `json:"requestedAt"`
	Deadline       time.Time `json:"deadline"`
}

// ScanRequest is one scanner gun read.
type ScanRequest struct {
	Code    string `json:"code"`
	Context string `json:"context"`
	ActorID string `json:"actorId"`
}

// MarkExceptionRequest parks an order with an operator-stated reason.
type MarkExceptionRequest struct {
	Reason string `json:"reason"`
}

// RegisterSubscriptionRequest registers a webhook subscriber.
type RegisterSubscriptionRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
}

// FailedDeliveryResponse is one dead-lettered webhook delivery.
type FailedDeliveryResponse struct {
	DeliveryID     string    `json:"deliveryId"`
	SubscriptionID string    `json:"subscriptionId"`
	EventID        string    `json:"eventId"`
	TargetURL      string    `json:"targetUrl"`
	AttemptCount   int       `json:"attemptCount"`
	LastError      string    `json:"lastError"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedAt    time.Time `json:"completedAt"`
}

// CreateManifestRequest opens a courier manifest over packed orders.
type CreateManifestRequest struct {
	Courier  string   `json:"courier"`
	OrderIDs []string `json:"orderIds"`
}

// CreateRouteRequest opens a delivery route over shipped orders.
type CreateRouteRequest struct {
	Driver   string   `json:"driver"`
	Vehicle  string   `json:"vehicle"`
	OrderIDs []string `json:"orderIds"`
}
