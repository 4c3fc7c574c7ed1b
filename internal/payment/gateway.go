package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"campus-reserve-backend/internal/domain"
)

// httpGateway talks to the card processor's REST API. The processor sits
// across a trust boundary: every response is re-validated here and mapped
// onto the engine's error taxonomy.
type httpGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type intentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amount_cents"`
	SettledAt    string `json:"settled_at"`
}

func (g *httpGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (*Intent, error) {
	var resp intentResponse
	if err := g.post(ctx, "/v1/intents", intentRequest{AmountCents: amountCents, Currency: currency}, &resp); err != nil {
		return nil, fmt.Errorf("create intent: %w", err)
	}
	return &Intent{ID: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

func (g *httpGateway) ConfirmIntent(ctx context.Context, intentID string) (*Receipt, error) {
	var resp intentResponse
	if err := g.post(ctx, "/v1/intents/"+intentID+"/confirm", nil, &resp); err != nil {
		return nil, fmt.Errorf("confirm intent: %w", err)
	}

	switch resp.Status {
	case "succeeded":
		settledAt, err := time.Parse(time.RFC3339, resp.SettledAt)
		if err != nil {
			settledAt = time.Now()
		}
		return &Receipt{
			Reference:   resp.ID,
			AmountCents: resp.AmountCents,
			SettledAt:   settledAt,
		}, nil
	case "declined":
		return nil, domain.ErrCardDeclined
	case "expired":
		return nil, domain.ErrIntentExpired
	default:
		return nil, fmt.Errorf("unexpected intent status %q", resp.Status)
	}
}

func (g *httpGateway) post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
