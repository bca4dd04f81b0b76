package payment

import "context"

// Metadata keys attached to every checkout session.
const (
	MetadataUserID    = "userId"
	MetadataPackageID = "packageId"
)

// CheckoutRequest describes a single-item hosted checkout.
type CheckoutRequest struct {
	ProductName   string
	Description   string
	UnitAmount    int64 // minor units
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID            string
	URL           string
	Paid          bool
	Metadata      map[string]string
	CustomerEmail string
	AmountTotal   int64 // minor units
	Currency      string
}

// Gateway is the external payment capability.
type Gateway interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	// ParseWebhook verifies a signed provider event. It returns nil when the
	// event does not complete a checkout.
	ParseWebhook(payload []byte, signature string) (*Session, error)
}
