package ports

import "context"

// PushSender delivers one encoded batch payload to the ingestion endpoint.
// Implementations make a single attempt; retry policy belongs to the
// caller.
type PushSender interface {
	// Send transmits the payload. Returns nil on success, an error on
	// any transport or server failure. The payload must be treated as
	// lost on error.
	Send(ctx context.Context, payload []byte, meta SendMetadata) error
}

// SendMetadata provides per-push context for the send operation.
type SendMetadata struct {
	// URL is the base URL of the ingestion service.
	URL string

	// TenantID scopes the push to one tenant. Empty for single-tenant
	// endpoints.
	TenantID string

	// AuthKey is the bearer token, if the endpoint requires one.
	AuthKey string

	// ContentType matches the wire format of the payload.
	ContentType string

	// Hostname identifies the shipping agent for server-side tracking.
	Hostname string
}
