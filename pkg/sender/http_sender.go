// Package sender delivers encoded batch payloads to the ingestion endpoint
// over HTTP.
package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"

	"github.com/google/uuid"

	"github.com/loghaul/lokiship/internal/ports"
	"github.com/loghaul/lokiship/pkg/log"
)

const pushEndpoint = "/loki/api/v1/push"

// HTTPSender implements ports.PushSender against the push API. It makes one
// attempt per payload; retries and backoff are the caller's concern.
type HTTPSender struct {
	client ports.HTTPClient
	logger log.Logger
}

// NewHTTPSender creates a new HTTP sender.
func NewHTTPSender(client ports.HTTPClient, logger log.Logger) *HTTPSender {
	return &HTTPSender{
		client: client,
		logger: logger,
	}
}

// Send posts the payload to the push endpoint. A transport failure or a
// non-2xx response is returned as an error; the payload must be treated as
// lost.
func (s *HTTPSender) Send(ctx context.Context, payload []byte, meta ports.SendMetadata) error {
	if len(payload) == 0 {
		return nil
	}

	url := meta.URL + pushEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", meta.ContentType)
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("X-Agent-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	if meta.Hostname != "" {
		req.Header.Set("X-Agent-Hostname", meta.Hostname)
	}
	if meta.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", meta.TenantID)
	}
	if meta.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+meta.AuthKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("pushed payload",
		log.Int("bytes", len(payload)),
		log.String("tenant", meta.TenantID),
	)
	return nil
}
