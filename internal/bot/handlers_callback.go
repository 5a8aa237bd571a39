package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	sess := b.sessions.Get(chatID)
	username := callback.From.UserName
	action := callback.Data

	switch {
	case strings.HasPrefix(action, "setsector_"):
		slug := strings.TrimPrefix(action, "setsector_")
		if validOption(Sectors, slug) {
			sess.ReadsItem.Taxonomy = []string{slug}
		}
		b.nextCreateReadState(chatID, sess)
	case strings.HasPrefix(action, "settype_"):
		slug := strings.TrimPrefix(action, "settype_")
		if validOption(Types, slug) {
			sess.ReadsItem.Tags = []string{slug}
		}
		b.nextCreateReadState(chatID, sess)
	default:
		switch action {
		case "menu":
			b.displayMainMenu(chatID)
		case "help":
			b.reply(chatID, b.localizer.Get("help_message"))
		case "newread":
			b.handleNewRead(chatID, sess)
		case "newafpost":
			b.handleNewAfPost(chatID, sess)
		case "publish":
			b.handlePublishRead(chatID, sess, username)
		case "postafpost":
			b.handlePublishAfPost(chatID, sess, username)
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
		case "anothervoice":
			b.handleAnotherVoice(chatID, sess)
		case "viewafpost":
			b.handleViewAfPost(chatID, sess)
		case "savecurrenttranscription":
			b.handleSaveCurrentTranscription(chatID, sess)
		case "viewcurrenttranscription":
			b.handleViewCurrentTranscription(chatID, sess)
		case "promptforimage":
			b.handlePromptForImage(chatID)
		}
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}
}
