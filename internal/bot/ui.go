package bot

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	markdownEscaper = strings.NewReplacer(
		"-", "\\-", "_", "\\_", "*", "\\*", "[", "\\[", ",", "\\,",
		"]", "\\]", "(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
		">", "\\>", "#", "\\#", "+", "\\+", "=", "\\=", "|", "\\|",
		"{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanTextForMarkdown makes free-form field content safe for MarkdownV2:
// escape the reserved punctuation set, collapse whitespace, and swap @ for
// its full-width variant so Telegram never treats it as a mention.
func cleanTextForMarkdown(text string) string {
	text = markdownEscaper.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, "@", "＠")
}

func previewText(sess *Session) string {
	item := sess.ReadsItem
	var sector, kind string
	if len(item.Taxonomy) > 0 {
		sector = OptionLabel(Sectors, item.Taxonomy[0])
	}
	if len(item.Tags) > 0 {
		kind = OptionLabel(Types, item.Tags[0])
	}
	return fmt.Sprintf(
		"here is what we've got so far:\n\n__*Title*__\n%s\n\n__*Description*__\n%s\n\n__*Sector*__\n%s\n\n__*Type*__\n%s\n",
		cleanTextForMarkdown(item.Title),
		cleanTextForMarkdown(item.Description),
		sector,
		kind,
	)
}

func (b *TelegramBot) replyWithPreview(chatID int64, sess *Session) {
	msg := tgbotapi.NewMessage(chatID, previewText(sess))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send preview: %v", err)
	}
	b.displayCreateReadsMenu(chatID)
}

func (b *TelegramBot) displayMainMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_create_read"), "newread"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_create_af_post"), "newafpost"),
		),
	)
	b.sendMenu(chatID, keyboard)
}

func (b *TelegramBot) displayCreateReadsMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_set_title"), "settitle"),
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_set_description"), "setdescription"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_set_type"), "settype"),
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_set_sector"), "setsector"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_start_over"), "newread"),
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_help"), "help"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_publish"), "publish"),
		),
	)
	b.sendMenu(chatID, keyboard)
}

func (b *TelegramBot) displayCreateAfPostMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_start_over"), "newafpost"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_record_memo"), "anothervoice"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_save_transcript"), "savecurrenttranscription"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_view_transcript"), "viewcurrenttranscription"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_add_image"), "promptforimage"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_set_af_title"), "setafposttitle"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_view_af_post"), "viewafpost"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.localizer.Get("btn_post_af"), "postafpost"),
		),
	)
	b.sendMenu(chatID, keyboard)
}

// displayOptionMenu renders a closed vocabulary as an inline keyboard, two
// buttons per row, with callback data "<command>_<slug>".
func (b *TelegramBot) displayOptionMenu(chatID int64, options []Option, command, optionName string) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(options); i += 2 {
		chunk := options[i:min(i+2, len(options))]
		var row []tgbotapi.InlineKeyboardButton
		for _, opt := range chunk {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt.Title, fmt.Sprintf("%s_%s", command, opt.Slug)))
		}
		rows = append(rows, row)
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	msg := tgbotapi.NewMessage(chatID, b.localizer.Getf("select_option", optionName))
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send option menu: %v", err)
	}
}

func (b *TelegramBot) sendMenu(chatID int64, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, b.localizer.Get("menu_prompt"))
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send menu: %v", err)
	}
}
