package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-reserve-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHTTPGateway_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/intents", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req intentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2500), req.AmountCents)
		assert.Equal(t, "usd", req.Currency)

		json.NewEncoder(w).Encode(intentResponse{ID: "pi_1", ClientSecret: "pi_1_secret", Status: "requires_confirmation"})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "test-key", 5*time.Second)
	intent, err := gw.CreateIntent(context.Background(), 2500, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
}

func TestHTTPGateway_ConfirmIntent(t *testing.T) {
	statuses := map[string]intentResponse{
		"pi_ok":       {ID: "pi_ok", Status: "succeeded", AmountCents: 2500, SettledAt: time.Now().Format(time.RFC3339)},
		"pi_declined": {ID: "pi_declined", Status: "declined"},
		"pi_expired":  {ID: "pi_expired", Status: "expired"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for id, resp := range statuses {
			if r.URL.Path == "/v1/intents/"+id+"/confirm" {
				json.NewEncoder(w).Encode(resp)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "test-key", 5*time.Second)
	ctx := context.Background()

	t.Run("Succeeded", func(t *testing.T) {
		receipt, err := gw.ConfirmIntent(ctx, "pi_ok")
		assert.NoError(t, err)
		assert.Equal(t, "pi_ok", receipt.Reference)
		assert.Equal(t, int64(2500), receipt.AmountCents)
	})

	t.Run("Declined", func(t *testing.T) {
		receipt, err := gw.ConfirmIntent(ctx, "pi_declined")
		assert.ErrorIs(t, err, domain.ErrCardDeclined)
		assert.Nil(t, receipt)
	})

	t.Run("Expired", func(t *testing.T) {
		receipt, err := gw.ConfirmIntent(ctx, "pi_expired")
		assert.ErrorIs(t, err, domain.ErrIntentExpired)
		assert.Nil(t, receipt)
	})

	t.Run("Gateway Error Status", func(t *testing.T) {
		receipt, err := gw.ConfirmIntent(ctx, "pi_unknown")
		assert.Error(t, err)
		assert.Nil(t, receipt)
	})
}
