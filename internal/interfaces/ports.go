package interfaces

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Outgoing is a message ready for delivery: body, optional parse mode
// and an optional control set.
type Outgoing struct {
	Text          string
	ParseMode     string // "" (plain) or "HTML"
	Keyboard      *tgbotapi.InlineKeyboardMarkup
	ReplyKeyboard *tgbotapi.ReplyKeyboardMarkup
}

// Messenger is the narrow surface of the chat transport.
type Messenger interface {
	// Send delivers a new message and returns its message id.
	Send(chatID int64, out Outgoing) (int, error)
	// Edit replaces the body and controls of an existing message.
	// Editing to identical content is a successful no-op.
	Edit(chatID int64, messageID int, out Outgoing) error
	// AnswerCallback acknowledges a button press.
	AnswerCallback(callbackID, text string) error
}

// RowSource is the narrow surface of the tabular data store.
// Row 0 of FetchRows is always a header.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
	ReplaceRows(ctx context.Context, rows [][]string) error
}
