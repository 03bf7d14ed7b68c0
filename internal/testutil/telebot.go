package testutil

import (
	"fmt"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// FakeContext is a tele.Context for handler tests. Only the methods the
// bot handlers use are implemented; anything else panics.
type FakeContext struct {
	tele.Context

	User *tele.User
	Msg  *tele.Message
	CB   *tele.Callback

	mu         sync.Mutex
	values     map[string]any
	Sent       []string
	Edited     []string
	Responses  []*tele.CallbackResponse
	LastMarkup *tele.ReplyMarkup
}

// NewTextContext builds a context for a text message from telegramID
func NewTextContext(telegramID int64, username, text string) *FakeContext {
	user := &tele.User{ID: telegramID, Username: username}
	return &FakeContext{
		User: user,
		Msg:  &tele.Message{ID: 1, Sender: user, Chat: &tele.Chat{ID: telegramID}, Text: text},
	}
}

// NewCallbackContext builds a context for an inline button press
func NewCallbackContext(telegramID int64, username, data string) *FakeContext {
	user := &tele.User{ID: telegramID, Username: username}
	msg := &tele.Message{ID: 1, Sender: user, Chat: &tele.Chat{ID: telegramID}}
	return &FakeContext{
		User: user,
		Msg:  msg,
		CB:   &tele.Callback{ID: "cb", Sender: user, Message: msg, Data: "\f" + data},
	}
}

func (c *FakeContext) Sender() *tele.User { return c.User }
func (c *FakeContext) Message() *tele.Message { return c.Msg }
func (c *FakeContext) Callback() *tele.Callback { return c.CB }

func (c *FakeContext) Chat() *tele.Chat {
	if c.Msg == nil {
		return nil
	}
	return c.Msg.Chat
}

func (c *FakeContext) Text() string {
	if c.Msg == nil {
		return ""
	}
	return c.Msg.Text
}

func (c *FakeContext) Args() []string {
	fields := strings.Fields(c.Text())
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

func (c *FakeContext) Update() tele.Update {
	return tele.Update{Message: c.Msg, Callback: c.CB}
}

func (c *FakeContext) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

func (c *FakeContext) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = val
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, fmt.Sprint(what))
	c.keepMarkup(opts)
	return nil
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Edited = append(c.Edited, fmt.Sprint(what))
	c.keepMarkup(opts)
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	c.Responses = append(c.Responses, resp...)
	return nil
}

func (c *FakeContext) keepMarkup(opts []interface{}) {
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok && m != nil {
			c.LastMarkup = m
		}
	}
}

// Output returns the last text sent or edited
func (c *FakeContext) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CB != nil && len(c.Edited) > 0 {
		return c.Edited[len(c.Edited)-1]
	}
	if len(c.Sent) > 0 {
		return c.Sent[len(c.Sent)-1]
	}
	return ""
}

// Buttons returns the Unique values of the last inline keyboard
func (c *FakeContext) Buttons() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LastMarkup == nil {
		return nil
	}
	var out []string
	for _, row := range c.LastMarkup.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Unique)
		}
	}
	return out
}
