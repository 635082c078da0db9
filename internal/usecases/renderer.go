package usecases

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"infobot/internal/config"
	"infobot/internal/entities"
	"infobot/internal/interfaces"
)

// Reserved callback actions; everything else is an item id.
const (
	ActionBack     = "back"
	ActionRefresh  = "refresh"
	ActionMainMenu = "main_menu"
)

// Navigation button captions
const (
	captionBack    = "⬅️ Назад"
	captionHome    = "🏠 Главное меню"
	captionRefresh = "🔄 Обновить"
)

// Renderer maps content items to message bodies and inline keyboards.
type Renderer struct {
	maxLen int
	cfg    config.Config
}

func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{maxLen: cfg.MaxMessageLength, cfg: cfg}
}

// Item renders one content item by its type.
func (r *Renderer) Item(item entities.Item, snap entities.Snapshot) interfaces.Outgoing {
	switch item.Type {
	case entities.TypeMenu:
		return r.menu(item, snap, true)
	case entities.TypeSubmenu:
		return r.menu(item, snap, false)
	case entities.TypePhone:
		return r.phone(item)
	case entities.TypeLink:
		return r.link(item)
	case entities.TypeText, entities.TypeEmail:
		return r.text(item)
	default:
		return r.text(item)
	}
}

// menu renders a node with its children as buttons. A menu without
// children degrades to plain text.
func (r *Renderer) menu(item entities.Item, snap entities.Snapshot, isMain bool) interfaces.Outgoing {
	children := ChildrenOf(snap, item.ID)
	if len(children) == 0 {
		return r.text(item)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, child := range children {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(child.Text, child.ID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if !isMain {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(captionBack, ActionBack))
	}
	nav = append(nav,
		tgbotapi.NewInlineKeyboardButtonData(captionHome, ActionMainMenu),
		tgbotapi.NewInlineKeyboardButtonData(captionRefresh, ActionRefresh),
	)
	rows = append(rows, nav)

	text := item.Text
	if item.Data != "" {
		text += "\n\n" + item.Data
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return interfaces.Outgoing{Text: r.truncate(text), Keyboard: &keyboard}
}

// MainMenu renders the root level of the tree.
func (r *Renderer) MainMenu(snap entities.Snapshot) interfaces.Outgoing {
	roots := Roots(snap)
	if len(roots) == 0 {
		return r.Error("Главное меню не настроено")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range roots {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(item.Text, item.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить данные", ActionRefresh),
	))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return interfaces.Outgoing{
		Text:      "📋 <b>Главное меню</b>\n\nВыберите нужный раздел:",
		ParseMode: tgbotapi.ModeHTML,
		Keyboard:  &keyboard,
	}
}

func (r *Renderer) phone(item entities.Item) interfaces.Outgoing {
	body := fmt.Sprintf("%s\n\n📞 <a href='tel:+%s'>%s</a>",
		item.Text, NormalizePhone(item.Data), item.Data)
	if item.Extra != "" {
		body += "\n\n💡 " + item.Extra
	}
	return interfaces.Outgoing{
		Text:      r.truncate(body),
		ParseMode: tgbotapi.ModeHTML,
		Keyboard:  backHomeKeyboard(),
	}
}

func (r *Renderer) link(item entities.Item) interfaces.Outgoing {
	body := fmt.Sprintf("%s\n\n🔗 <a href='%s'>Перейти по ссылке</a>", item.Text, item.Data)
	if item.Extra != "" {
		body += "\n\n💡 " + item.Extra
	}
	return interfaces.Outgoing{
		Text:      r.truncate(body),
		ParseMode: tgbotapi.ModeHTML,
		Keyboard:  backHomeKeyboard(),
	}
}

func (r *Renderer) text(item entities.Item) interfaces.Outgoing {
	body := item.Text
	if item.Data != "" {
		body += "\n\n" + item.Data
	}
	if item.Extra != "" {
		body += "\n\n💡 " + item.Extra
	}
	return interfaces.Outgoing{Text: r.truncate(body), Keyboard: backHomeKeyboard()}
}

// Error renders an inline failure with recovery controls.
func (r *Renderer) Error(text string) interfaces.Outgoing {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(captionHome, ActionMainMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(captionRefresh, ActionRefresh),
		),
	)
	return interfaces.Outgoing{Text: "⚠️ " + text, Keyboard: &keyboard}
}

// SearchResults renders a numbered result list with one button per
// hit. results is already capped by the caller; total is the full
// match count so the omitted tail can be reported.
func (r *Renderer) SearchResults(query string, results []entities.Item, total int) interfaces.Outgoing {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 <b>Результаты поиска по запросу:</b> %s\n\n", query)

	for i, item := range results {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n", i+1, item.Text)
		if item.Data != "" {
			preview := item.Data
			if len([]rune(preview)) > 100 {
				preview = string([]rune(preview)[:100]) + "..."
			}
			fmt.Fprintf(&sb, "   %s\n", preview)
		}
		sb.WriteString("\n")
	}

	if total > len(results) {
		fmt.Fprintf(&sb, "... и еще %d результатов", total-len(results))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range results {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 "+item.Text, item.ID),
		))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return interfaces.Outgoing{
		Text:      r.truncate(sb.String()),
		ParseMode: tgbotapi.ModeHTML,
		Keyboard:  &keyboard,
	}
}

// Greeting renders the /start welcome with the reply keyboard.
func (r *Renderer) Greeting(firstName string) interfaces.Outgoing {
	text := fmt.Sprintf(
		"👋 Добро пожаловать, %s!\n\n"+
			"🏥 Это бот базы знаний клиники.\n\n"+
			"Возможности:\n"+
			"• 🔍 Поиск информации по ключевым словам\n"+
			"• 📱 Быстрый доступ к контактам\n"+
			"• 📋 Навигация по разделам\n\n"+
			"Используйте кнопки ниже или введите запрос:",
		firstName)

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(r.cfg.MenuButton),
			tgbotapi.NewKeyboardButton(r.cfg.ContactsButton),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(r.cfg.HelpButton),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.InputFieldPlaceholder = "Введите запрос или выберите кнопку"

	return interfaces.Outgoing{Text: text, ReplyKeyboard: &keyboard}
}

// Help renders the static /help text.
func (r *Renderer) Help() interfaces.Outgoing {
	text := "❓ <b>Справка по использованию бота</b>\n\n" +
		"🔍 <b>Поиск:</b>\n" +
		"Просто напишите ключевое слово или фразу\n\n" +
		"📋 <b>Навигация:</b>\n" +
		"• Используйте кнопки для перехода по разделам\n" +
		"• Кнопка 'Назад' для возврата\n" +
		"• Команда /menu для главного меню\n\n" +
		"📞 <b>Контакты:</b>\n" +
		"Нажмите на номер телефона для звонка\n\n" +
		"🔄 <b>Обновление:</b>\n" +
		"Данные обновляются автоматически каждый час"
	return interfaces.Outgoing{Text: text, ParseMode: tgbotapi.ModeHTML}
}

func backHomeKeyboard() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(captionBack, ActionBack),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(captionHome, ActionMainMenu),
		),
	)
	return &keyboard
}

// NormalizePhone strips everything but digits and rewrites the
// Russian trunk prefix 8 to the country code 7.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	s := digits.String()
	if strings.HasPrefix(s, "8") {
		s = "7" + s[1:]
	}
	return s
}

// truncate cuts the body at maxLen runes, marking the cut with an
// ellipsis.
func (r *Renderer) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= r.maxLen {
		return s
	}
	return string(runes[:r.maxLen-3]) + "..."
}
