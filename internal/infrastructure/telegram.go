package infrastructure

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"infobot/internal/interfaces"
)

// TelegramClient adapts the Bot API to the Messenger port. Throttled
// calls (RetryAfter) are retried exactly once after the signaled
// wait; only the issuing goroutine sleeps.
type TelegramClient struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

func NewTelegramClient(token string, log *zap.Logger) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &TelegramClient{bot: bot, log: log}, nil
}

// Username returns the bot account name.
func (t *TelegramClient) Username() string {
	return t.bot.Self.UserName
}

// Updates opens the long-polling update channel.
func (t *TelegramClient) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return t.bot.GetUpdatesChan(u)
}

func (t *TelegramClient) Send(chatID int64, out interfaces.Outgoing) (int, error) {
	msg := tgbotapi.NewMessage(chatID, out.Text)
	msg.ParseMode = out.ParseMode
	msg.DisableWebPagePreview = true
	if out.Keyboard != nil {
		msg.ReplyMarkup = *out.Keyboard
	} else if out.ReplyKeyboard != nil {
		msg.ReplyMarkup = *out.ReplyKeyboard
	}

	sent, err := t.send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (t *TelegramClient) Edit(chatID int64, messageID int, out interfaces.Outgoing) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, out.Text)
	edit.ParseMode = out.ParseMode
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = out.Keyboard

	_, err := t.send(edit)
	if err != nil && isNotModified(err) {
		// Same body and controls already on screen; treat as done
		return nil
	}
	return err
}

func (t *TelegramClient) AnswerCallback(callbackID, text string) error {
	_, err := t.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// send issues an API call with one bounded retry on throttling. The
// loop is deliberately iterative: no recursion, no second retry.
func (t *TelegramClient) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := t.bot.Send(c)
	if err == nil {
		return msg, nil
	}

	wait, throttled := retryAfter(err)
	if !throttled {
		return tgbotapi.Message{}, fmt.Errorf("telegram: send: %w", err)
	}

	t.log.Warn("telegram throttled, retrying once", zap.Duration("wait", wait))
	time.Sleep(wait)

	msg, err = t.bot.Send(c)
	if err != nil {
		t.log.Error("telegram send failed after retry", zap.Error(err))
		return tgbotapi.Message{}, fmt.Errorf("telegram: send after retry: %w", err)
	}
	return msg, nil
}

// retryAfter extracts the throttle wait from an API error.
func retryAfter(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second, true
	}
	return 0, false
}

func isNotModified(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}
