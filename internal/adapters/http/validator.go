package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/internal/ports"
)

// maxIdentityBody bounds how much of an identity response is read.
const maxIdentityBody = 1 << 20

// Validator implements ports.Validator by asking an identity endpoint who the
// credential belongs to.
type Validator struct {
	client   ports.HTTPClient
	endpoint string
	scheme   string
}

// NewValidator creates a validator for endpoint. The credential is sent in the
// Authorization header, prefixed with scheme when one is given (e.g. "Bearer").
func NewValidator(client ports.HTTPClient, endpoint, scheme string) *Validator {
	return &Validator{
		client:   client,
		endpoint: endpoint,
		scheme:   strings.TrimSpace(scheme),
	}
}

// identityResponse accepts the common shapes of "who am I" payloads.
type identityResponse struct {
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
}

// Validate resolves the credential's identity.
func (v *Validator) Validate(ctx context.Context, credential string) (domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create request: %w", err)
	}

	auth := credential
	if v.scheme != "" {
		auth = v.scheme + " " + credential
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.Identity{}, fmt.Errorf("%w: status %d", domain.ErrInvalidCredential, resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Identity{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var payload identityResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIdentityBody)).Decode(&payload); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}

	name := payload.Username
	if name == "" {
		name = payload.Name
	}
	return domain.Identity{ID: rawID(payload.ID), Name: name}, nil
}

// rawID renders a JSON id that may be a string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
