package bot

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) handleCommand(message *tgbotapi.Message) {
	cmd := message.Command()

	// start and help stay open so prospective editors can find out who
	// to ask for access.
	if cmd != "start" && cmd != "help" && !b.isEditor(message.From.ID) {
		b.reply(message.Chat.ID, b.localizer.Get("permission_denied"))
		return
	}

	chatID := message.Chat.ID
	sess := b.sessions.Get(chatID)

	switch cmd {
	case "start":
		b.reply(chatID, b.localizer.Get("welcome_message"))
	case "help":
		b.reply(chatID, b.localizer.Get("help_message"))
	case "menu":
		b.displayMainMenu(chatID)
	case "newread":
		b.handleNewRead(chatID, sess)
	case "newafpost":
		b.handleNewAfPost(chatID, sess)
	case "publish":
		b.handlePublishRead(chatID, sess, message.From.UserName)
	case "preview":
		b.replyWithPreview(chatID, sess)
	case "settitle":
		b.promptSetTitle(chatID, sess)
	case "setdescription":
		b.promptSetDescription(chatID, sess)
	case "settype":
		b.promptSetTag(chatID, sess)
	case "setsector":
		b.promptSetTaxonomy(chatID, sess)
	case "setafposttitle":
		b.promptSetAfPostTitle(chatID, sess)
	case "seteditor":
		b.handleSetEditorCommand(message)
	}
}

func (b *TelegramBot) handleSetEditorCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if message.From.ID != b.cfg.SuperAdminID {
		b.reply(chatID, b.localizer.Get("permission_denied"))
		return
	}
	parts := strings.Fields(message.CommandArguments())
	if len(parts) != 2 {
		b.reply(chatID, b.localizer.Get("seteditor_usage"))
		return
	}
	targetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.reply(chatID, b.localizer.Get("seteditor_usage"))
		return
	}
	if targetID == b.cfg.SuperAdminID {
		b.reply(chatID, b.localizer.Get("seteditor_superadmin_fail"))
		return
	}
	isEditor, err := strconv.ParseBool(parts[1])
	if err != nil {
		b.reply(chatID, b.localizer.Get("seteditor_usage"))
		return
	}
	if err := b.storage.SetEditor(targetID, isEditor); err != nil {
		log.Printf("Failed to set editor status for user %d: %v", targetID, err)
		return
	}
	b.reply(chatID, b.localizer.Getf("seteditor_success", targetID))
}
