package telegram

import (
	"context"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"golang.org/x/time/rate"
)

// MaxSendDurr configures the limiter to send at most 1 message per MaxSendDurr
var MaxSendDurr = 500 * time.Millisecond

const maxMessageSize = 4096 // https://github.com/yagop/node-telegram-bot-api/issues/165

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	ctx       context.Context
	channelID int64
	api       sender
	limiter   *rate.Limiter
}

func New(ctx context.Context, token string, channelID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return newBot(ctx, api, channelID), nil
}

func newBot(ctx context.Context, api sender, channelID int64) *Bot {
	return &Bot{
		ctx:       ctx,
		channelID: channelID,
		api:       api,
		// limmit message spam to once every MaxSendDurr
		limiter: rate.NewLimiter(rate.Every(MaxSendDurr), 1),
	}
}

// Send sends a message to the channel, optionally sending notifications depending on disableNotification
// internally ratelimited to once every MaxSendDurr. Messages that are too long are cut into
// numbered parts, at most 9 of them.
func (t *Bot) Send(txt string, disableNotification bool) error {
	for _, part := range split(txt) {
		if err := t.limiter.Wait(t.ctx); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(t.channelID, part)
		msg.DisableNotification = disableNotification
		if _, err := t.api.Send(msg); err != nil {
			return err
		}
	}

	return nil
}

// SendFile uploads data as a document named filename, ratelimited the same way Send is
func (t *Bot) SendFile(data []byte, filename string, disableNotification bool) error {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return err
	}

	doc := tgbotapi.NewDocumentUpload(t.channelID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	doc.DisableNotification = disableNotification

	_, err := t.api.Send(doc)
	return err
}

// split cuts txt into telegram sized parts, postfixed with " (i)" when cut
func split(txt string) []string {
	const postfixLength = 4
	const maxParts = 9

	if len(txt) <= maxMessageSize {
		return []string{txt}
	}

	var parts []string
	for i := 1; len(txt) > 0 && i <= maxParts; i++ {
		end := maxMessageSize - postfixLength
		if len(txt) <= end {
			end = len(txt)
		} else {
			// never cut a multi-byte rune in half
			for end > 0 && !utf8.RuneStart(txt[end]) {
				end--
			}
		}
		parts = append(parts, txt[:end]+" ("+string(rune('0'+i))+")")
		txt = txt[end:]
	}

	return parts
}
