package smsprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/webshop/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.SMSProvider{
		SMSProviderURL: url + "/",
		SMSAPIKey:      "test-key",
		SMSSender:      "WebShop",
		SMSTimeout:     time.Second,
	})
}

func TestClient_Send(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantErr       bool
		wantPermanent bool
	}{
		{name: "accepted", status: http.StatusAccepted, body: `{"id":"m-1","status":"queued"}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, wantErr: true, wantPermanent: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: true},
		{name: "provider down", status: http.StatusBadGateway, body: `{}`, wantErr: true},
		{name: "broken body", status: http.StatusOK, body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SendRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/messages", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := newTestClient(srv.URL).Send(context.Background(), "+38640000000", "hello")
			assert.Equal(t, SendRequest{From: "WebShop", To: "+38640000000", Text: "hello"}, got)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "m-1", resp.ID)
				return
			}
			require.Error(t, err)
			assert.Nil(t, resp)

			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				assert.Equal(t, tt.status, statusErr.Code)
				assert.Equal(t, tt.wantPermanent, statusErr.Permanent())
			} else {
				assert.False(t, tt.wantPermanent)
			}
		})
	}
}

func TestClient_Send_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(srv.URL).Send(ctx, "+1", "x")
	assert.ErrorIs(t, err, context.Canceled)
}
