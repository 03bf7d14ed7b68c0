package webhook

import (
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"
)

// BotConfig selects how the bot receives updates
type BotConfig struct {
	Production  bool
	PublicURL   string
	Path        string
	SecretToken string
}

// Endpoint returns the public URL Telegram posts updates to
func (c BotConfig) Endpoint() string {
	return strings.TrimRight(c.PublicURL, "/") + "/" + strings.TrimLeft(c.Path, "/")
}

// NewPoller returns a webhook poller and the handler to mount on the HTTP
// router in production, and a long poller with a nil handler otherwise.
// The webhook is registered with Telegram when the bot starts polling.
func NewPoller(cfg BotConfig) (tele.Poller, http.Handler) {
	if !cfg.Production {
		return &tele.LongPoller{Timeout: 10 * time.Second}, nil
	}

	wh := &tele.Webhook{
		Endpoint:       &tele.WebhookEndpoint{PublicURL: cfg.Endpoint()},
		SecretToken:    cfg.SecretToken,
		AllowedUpdates: []string{"message", "callback_query"},
	}
	return wh, wh
}
