package gateway

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flemzord/scribe/internal/telegram"
)

// secretHeader is the header Telegram echoes back when the webhook was
// registered with a secret_token.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateBytes caps the webhook request body. Updates are small JSON
// documents; media arrives by reference, not inline.
const maxUpdateBytes = 1 << 20

// handleWebhook validates the secret in both the URL path and the secret
// token header, then dispatches the update. The response is 200 even when
// handling fails internally, otherwise Telegram keeps redelivering the same
// update.
func (g *Gateway) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !secretsEqual(chi.URLParam(r, "secret"), g.config.Secret) ||
			!secretsEqual(r.Header.Get(secretHeader), g.config.Secret) {
			g.logger.Warn("webhook request with invalid secret", "remote", r.RemoteAddr)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		var update telegram.Update
		if err := json.Unmarshal(body, &update); err != nil {
			g.logger.Warn("webhook request with malformed JSON", "error", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		g.handler(r.Context(), &update)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}

// secretsEqual compares two secrets in constant time.
func secretsEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
