// Package line adapts the engine's notification intents to the LINE
// messaging channel: webhook parsing inbound, push/reply rendering outbound.
package line

import (
	"net/http"

	"islandeats/models"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// Client wraps the LINE bot SDK and implements notification.Messenger.
// Delivery is best-effort: a failed push is retried once and then dropped
// with a log line; nothing propagates back to the engine.
type Client struct {
	bot    *linebot.Client
	logger *zap.Logger
}

func NewClient(channelSecret, channelToken string, logger *zap.Logger) (*Client, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, err
	}
	return &Client{bot: bot, logger: logger}, nil
}

// ParseRequest verifies the webhook signature and decodes the events.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.bot.ParseRequest(r)
}

// Reply renders the messages against a reply token. When the token is spent
// or expired the whole batch falls back to a push, the channel's second
// delivery primitive.
func (c *Client) Reply(replyToken, to string, msgs ...models.Message) {
	rendered := renderAll(msgs)
	if len(rendered) == 0 {
		return
	}
	if _, err := c.bot.ReplyMessage(replyToken, rendered...).Do(); err != nil {
		c.logger.Warn("reply failed, falling back to push",
			zap.String("to", to), zap.Error(err))
		if _, err := c.bot.PushMessage(to, rendered...).Do(); err != nil {
			c.logger.Warn("fallback push failed, dropping", zap.String("to", to), zap.Error(err))
		}
	}
}

// SendToRequester implements notification.Messenger.
func (c *Client) SendToRequester(requesterID string, msg models.Message) {
	c.push(requesterID, msg)
}

// SendToProvider implements notification.Messenger.
func (c *Client) SendToProvider(channelIdentity string, msg models.Message) {
	c.push(channelIdentity, msg)
}

func (c *Client) push(to string, msg models.Message) {
	rendered := Render(msg)
	if len(rendered) == 0 {
		return
	}
	if _, err := c.bot.PushMessage(to, rendered...).Do(); err != nil {
		c.logger.Warn("push failed, retrying once",
			zap.String("to", to), zap.String("kind", string(msg.Kind)), zap.Error(err))
		if _, err := c.bot.PushMessage(to, rendered...).Do(); err != nil {
			c.logger.Warn("push retry failed, dropping",
				zap.String("to", to), zap.String("kind", string(msg.Kind)), zap.Error(err))
		}
	}
}

func renderAll(msgs []models.Message) []linebot.SendingMessage {
	var out []linebot.SendingMessage
	for _, m := range msgs {
		out = append(out, Render(m)...)
	}
	return out
}
