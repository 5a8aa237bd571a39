package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleStatefulMessage routes free-form text by the chat's current state.
// Text arriving with no flow in progress falls through to the main menu.
func (b *TelegramBot) handleStatefulMessage(message *tgbotapi.Message, sess *Session) {
	chatID := message.Chat.ID
	text := message.Text

	switch sess.State {
	case StateAwaitVoiceTitle:
		b.handleUpdateAfPostTitle(chatID, sess, text)
	case StateAwaitTranscript:
		b.notifyNeedsTranscript(chatID)
	case StateAwaitMemo:
		b.reply(chatID, b.localizer.Get("record_to_continue"))
	case StateAwaitURL:
		b.handleUpdateURL(chatID, sess, text)
	case StateAwaitDescription:
		b.handleUpdateDescription(chatID, sess, text)
	case StateAwaitTitle:
		b.handleUpdateTitle(chatID, sess, text)
	case StateNone, StateBuild:
		b.displayMainMenu(chatID)
	}
}

// handleVoiceMessage runs the transcription pipeline for a voice note:
// download to a local scoped file, transcribe, set the pending transcript.
// The local file never outlives the attempt.
func (b *TelegramBot) handleVoiceMessage(message *tgbotapi.Message, sess *Session) {
	chatID := message.Chat.ID
	b.reply(chatID, b.localizer.Get("processing_voice"))

	localPath, err := b.voice.Download(message.Voice.FileID, message.Voice.FileUniqueID)
	if err != nil {
		log.Printf("Unable to download voice memo: %v", err)
		b.reply(chatID, b.localizer.Get("voice_failed"))
		return
	}

	transcript, err := b.voice.Transcribe(b.ctx, localPath)
	if err != nil {
		log.Printf("Unable to transcribe voice memo: %v", err)
		b.voice.Remove(localPath)
		b.reply(chatID, b.localizer.Get("voice_failed"))
		return
	}

	sess.AfPostItem.CurrentTranscript = transcript
	b.reply(chatID, b.localizer.Getf("current_transcript", transcript))
	b.displayCreateAfPostMenu(chatID)
}
