package webhook

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glossa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestVerify(t *testing.T) {
	body := []byte(`{"type":"suggestion.status"}`)
	secret := "s3cret"
	valid := Sign(body, secret)

	flipped := []byte(valid)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
		expected  bool
	}{
		{name: "valid", body: body, signature: valid, secret: secret, expected: true},
		{name: "valid with prefix", body: body, signature: "sha256=" + valid, secret: secret, expected: true},
		{name: "uppercase hex", body: body, signature: strings.ToUpper(valid), secret: secret, expected: true},
		{name: "flipped byte", body: body, signature: string(flipped), secret: secret, expected: false},
		{name: "tampered body", body: []byte(`{"type":"other"}`), signature: valid, secret: secret, expected: false},
		{name: "wrong secret", body: body, signature: valid, secret: "other", expected: false},
		{name: "empty signature", body: body, signature: "", secret: secret, expected: false},
		{name: "malformed hex", body: body, signature: strings.Repeat("zz", 32), secret: secret, expected: false},
		{name: "truncated", body: body, signature: valid[:40], secret: secret, expected: false},
		{name: "empty secret", body: body, signature: Sign(body, ""), secret: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Verify(tt.body, tt.signature, tt.secret))
		})
	}
}

func TestMiddleware(t *testing.T) {
	secret := "s3cret"
	body := `{"hello":"world"}`

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(b)
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(secret, testutil.NewTestLogger())(next)

	t.Run("signed request passes with body intact", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodPost, "/webhooks/events", strings.NewReader(body))
		req.Header.Set(SignatureHeader, Sign([]byte(body), secret))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, body, seen)
	})

	t.Run("unsigned request is rejected", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodPost, "/webhooks/events", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid signature"}`, rec.Body.String())
		assert.Empty(t, seen)
	})
}

func TestNewPoller(t *testing.T) {
	t.Run("development uses long polling", func(t *testing.T) {
		poller, handler := NewPoller(BotConfig{})
		assert.IsType(t, &tele.LongPoller{}, poller)
		assert.Nil(t, handler)
	})

	t.Run("production registers a webhook", func(t *testing.T) {
		poller, handler := NewPoller(BotConfig{
			Production:  true,
			PublicURL:   "https://bot.example.com/",
			Path:        "/telegram/webhook",
			SecretToken: "token",
		})
		wh, ok := poller.(*tele.Webhook)
		require.True(t, ok)
		assert.Equal(t, "https://bot.example.com/telegram/webhook", wh.Endpoint.PublicURL)
		assert.Equal(t, "token", wh.SecretToken)
		assert.NotNil(t, handler)
	})
}
