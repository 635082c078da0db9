package usecases

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"infobot/internal/config"
	"infobot/internal/infrastructure"
	"infobot/internal/interfaces"
)

const failureNotice = "⚠️ Произошла внутренняя ошибка. Попробуйте позже или обратитесь к администратору."

// Dispatcher routes inbound updates to navigation, search and
// rendering. Each update is handled by one goroutine running to
// completion; no error escapes HandleUpdate.
type Dispatcher struct {
	cfg       config.Config
	cache     *Cache
	sessions  *infrastructure.SessionManager
	limiter   *infrastructure.ChatRateLimiter
	renderer  *Renderer
	messenger interfaces.Messenger
	log       *zap.Logger
}

func NewDispatcher(
	cfg config.Config,
	cache *Cache,
	sessions *infrastructure.SessionManager,
	limiter *infrastructure.ChatRateLimiter,
	renderer *Renderer,
	messenger interfaces.Messenger,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		cache:     cache,
		sessions:  sessions,
		limiter:   limiter,
		renderer:  renderer,
		messenger: messenger,
		log:       log,
	}
}

// HandleUpdate is the top-level entry for one inbound event. Panics
// and errors are contained here: the session sees a generic failure
// notice and nothing else is affected.
func (d *Dispatcher) HandleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("panic in update handler", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()

	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		d.handleMessage(ctx, update.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var err error
	switch {
	case msg.IsCommand():
		err = d.handleCommand(ctx, msg)
	default:
		err = d.handleText(ctx, chatID, strings.TrimSpace(msg.Text))
	}

	if err != nil {
		d.log.Error("message handler failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		d.fail(chatID)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		return d.greet(msg)
	case "help":
		return d.sendHelp(chatID)
	case "menu":
		return d.showMainMenuCommand(ctx, chatID)
	default:
		return nil // unknown commands are ignored
	}
}

// handleText routes reply-keyboard button labels to their commands;
// anything else is a search query.
func (d *Dispatcher) handleText(ctx context.Context, chatID int64, text string) error {
	switch text {
	case d.cfg.MenuButton:
		return d.showMainMenuCommand(ctx, chatID)
	case d.cfg.ContactsButton:
		return d.showContacts(ctx, chatID)
	case d.cfg.HelpButton:
		return d.sendHelp(chatID)
	}

	if !d.limiter.Allow(chatID) {
		d.log.Debug("search query rate limited", zap.Int64("chat_id", chatID))
		return nil
	}
	return d.handleSearch(ctx, chatID, text)
}

func (d *Dispatcher) greet(msg *tgbotapi.Message) error {
	firstName := ""
	if msg.From != nil {
		firstName = msg.From.FirstName
		d.log.Info("user started the bot",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
	}
	_, err := d.messenger.Send(msg.Chat.ID, d.renderer.Greeting(firstName))
	return err
}

func (d *Dispatcher) sendHelp(chatID int64) error {
	_, err := d.messenger.Send(chatID, d.renderer.Help())
	return err
}

// showMainMenuCommand answers /menu: clears the navigation stack,
// posts a placeholder and edits it into the root menu.
func (d *Dispatcher) showMainMenuCommand(ctx context.Context, chatID int64) error {
	d.sessions.GetOrCreate(chatID).Clear()

	messageID, err := d.messenger.Send(chatID, interfaces.Outgoing{Text: "📋 Загружаем главное меню..."})
	if err != nil {
		return err
	}
	return d.editMainMenu(ctx, chatID, messageID)
}

func (d *Dispatcher) editMainMenu(ctx context.Context, chatID int64, messageID int) error {
	snap, err := d.cache.Get(ctx, false)
	if err != nil {
		return fmt.Errorf("load main menu: %w", err)
	}
	return d.messenger.Edit(chatID, messageID, d.renderer.MainMenu(snap))
}

// showContacts jumps straight to the configured contacts item
// without touching the navigation stack.
func (d *Dispatcher) showContacts(ctx context.Context, chatID int64) error {
	snap, err := d.cache.Get(ctx, false)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}

	item, ok := FindByID(snap, d.cfg.ContactsRootID)
	if !ok {
		_, err := d.messenger.Send(chatID, interfaces.Outgoing{Text: "⚠️ Контакты временно недоступны"})
		return err
	}

	messageID, err := d.messenger.Send(chatID, interfaces.Outgoing{Text: "📞 Загружаем контакты..."})
	if err != nil {
		return err
	}
	return d.messenger.Edit(chatID, messageID, d.renderer.Item(item, snap))
}

func (d *Dispatcher) handleSearch(ctx context.Context, chatID int64, query string) error {
	if len([]rune(query)) < MinQueryLength {
		_, err := d.messenger.Send(chatID, interfaces.Outgoing{Text: "🔍 Введите минимум 2 символа для поиска"})
		return err
	}

	snap, err := d.cache.Get(ctx, false)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}

	results := Search(snap, query)
	if len(results) == 0 {
		_, err := d.messenger.Send(chatID, interfaces.Outgoing{
			Text: fmt.Sprintf("🔍 По запросу '%s' ничего не найдено", query),
		})
		return err
	}

	total := len(results)
	if total > d.cfg.MaxSearchResults {
		results = results[:d.cfg.MaxSearchResults]
	}

	_, err = d.messenger.Send(chatID, d.renderer.SearchResults(query, results, total))
	return err
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	session := d.sessions.GetOrCreate(chatID)

	if !session.AllowClick() {
		if err := d.messenger.AnswerCallback(cb.ID, "Подождите..."); err != nil {
			d.log.Warn("answer callback failed", zap.Error(err))
		}
		return
	}

	session.StartProcessing()
	defer session.FinishProcessing()

	if err := d.messenger.AnswerCallback(cb.ID, ""); err != nil {
		d.log.Warn("answer callback failed", zap.Error(err))
	}

	var err error
	switch cb.Data {
	case ActionBack:
		err = d.handleBack(ctx, session, chatID, messageID)
	case ActionRefresh:
		err = d.handleRefresh(ctx, session, chatID, messageID)
	case ActionMainMenu:
		session.Clear()
		err = d.editMainMenu(ctx, chatID, messageID)
	default:
		err = d.openItem(ctx, session, chatID, messageID, cb.Data)
	}

	if err != nil {
		d.log.Error("callback handler failed",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err))
		d.fail(chatID)
	}
}

// openItem resolves a callback item id against the current snapshot
// and pushes it onto the navigation stack before rendering.
func (d *Dispatcher) openItem(ctx context.Context, session *infrastructure.Session, chatID int64, messageID int, id string) error {
	snap, err := d.cache.Get(ctx, false)
	if err != nil {
		return fmt.Errorf("open item %q: %w", id, err)
	}

	item, ok := FindByID(snap, id)
	if !ok {
		return d.messenger.Edit(chatID, messageID, d.renderer.Error("Элемент не найден"))
	}

	session.Push(item.ID)
	return d.messenger.Edit(chatID, messageID, d.renderer.Item(item, snap))
}

// handleBack pops the current node and renders the one below it. At
// depth 0 or 1 there is nothing to go back to: the stack is cleared
// and the root menu shown.
func (d *Dispatcher) handleBack(ctx context.Context, session *infrastructure.Session, chatID int64, messageID int) error {
	if session.Depth() < 2 {
		session.Clear()
		return d.editMainMenu(ctx, chatID, messageID)
	}

	session.Pop()
	previousID, ok := session.Peek()
	if !ok {
		return d.editMainMenu(ctx, chatID, messageID)
	}

	snap, err := d.cache.Get(ctx, false)
	if err != nil {
		return fmt.Errorf("back to %q: %w", previousID, err)
	}

	item, ok := FindByID(snap, previousID)
	if !ok {
		return d.editMainMenu(ctx, chatID, messageID)
	}
	return d.messenger.Edit(chatID, messageID, d.renderer.Item(item, snap))
}

// handleRefresh drops the cache, forces a fetch and resets navigation.
func (d *Dispatcher) handleRefresh(ctx context.Context, session *infrastructure.Session, chatID int64, messageID int) error {
	if err := d.messenger.Edit(chatID, messageID, interfaces.Outgoing{Text: "🔄 Обновляем данные..."}); err != nil {
		return err
	}

	d.cache.Invalidate()
	if _, err := d.cache.Get(ctx, true); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	session.Clear()
	return d.editMainMenu(ctx, chatID, messageID)
}

// fail sends the generic failure notice; delivery errors at this
// point are only logged.
func (d *Dispatcher) fail(chatID int64) {
	if _, err := d.messenger.Send(chatID, interfaces.Outgoing{Text: failureNotice}); err != nil {
		d.log.Error("failed to deliver failure notice", zap.Error(err))
	}
}
