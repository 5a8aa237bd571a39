package bot

import (
	"errors"
	"log"

	"reads-bot/internal/delphi"
)

// handlePublishRead posts the in-progress Reads item. The session is only
// reset on success or on a backend-reported duplicate; any other failure
// leaves the item in place so the user can retry or start over.
func (b *TelegramBot) handlePublishRead(chatID int64, sess *Session, username string) {
	if !b.ensureLinkSet(chatID, sess) {
		return
	}
	b.reply(chatID, b.localizer.Get("attempting_publish"))

	item := delphi.ReadSubmission{
		Title:       sess.ReadsItem.Title,
		Link:        sess.ReadsItem.Link,
		Description: sess.ReadsItem.Description,
		ImageURL:    sess.ReadsItem.ImageURL,
		Taxonomy:    sess.ReadsItem.Taxonomy,
		Tags:        sess.ReadsItem.Tags,
		TgUsername:  username,
	}
	err := b.delphi.CreateRead(b.ctx, item)
	if err == nil {
		if err := b.storage.RecordPublished(chatID, "read", item.Title, item.Link); err != nil {
			log.Printf("Failed to record published read: %v", err)
		}
		sess.Reset()
		b.reply(chatID, b.localizer.Get("published"))
		b.displayMainMenu(chatID)
		return
	}

	log.Printf("Error publishing read: %v", err)
	var validationErr *delphi.ValidationError
	switch {
	case errors.Is(err, delphi.ErrUnauthorized):
		b.reply(chatID, b.localizer.Get("publish_unauthorized"))
	case errors.Is(err, delphi.ErrDuplicateRead):
		b.reply(chatID, b.localizer.Get("publish_duplicate"))
		sess.Reset()
		b.displayMainMenu(chatID)
	case errors.As(err, &validationErr):
		b.reply(chatID, validationErr.UserMessage())
		b.reply(chatID, b.localizer.Get("publish_failed"))
	default:
		b.reply(chatID, b.localizer.Get("publish_failed"))
	}
}

// handlePublishAfPost posts the voice-memo item. Unlike reads there is no
// duplicate contract on this endpoint.
func (b *TelegramBot) handlePublishAfPost(chatID int64, sess *Session, username string) {
	if !b.ensureRequiredAfPostFields(chatID, sess) {
		return
	}
	b.reply(chatID, b.localizer.Get("attempting_publish"))

	item := delphi.AfSubmission{
		Title:             sess.AfPostItem.Title,
		Transcripts:       sess.AfPostItem.Transcripts,
		CurrentTranscript: sess.AfPostItem.CurrentTranscript,
		AudioURL:          sess.AfPostItem.AudioURL,
		TgUsername:        username,
	}
	err := b.delphi.CreateAf(b.ctx, item)
	if err == nil {
		if err := b.storage.RecordPublished(chatID, "af_post", item.Title, ""); err != nil {
			log.Printf("Failed to record published AF post: %v", err)
		}
		sess.Reset()
		b.reply(chatID, b.localizer.Get("af_created"))
		b.displayMainMenu(chatID)
		return
	}

	log.Printf("Error publishing AF post: %v", err)
	var validationErr *delphi.ValidationError
	switch {
	case errors.Is(err, delphi.ErrUnauthorized):
		b.reply(chatID, b.localizer.Get("publish_unauthorized"))
	case errors.As(err, &validationErr):
		b.reply(chatID, validationErr.UserMessage())
		b.reply(chatID, b.localizer.Get("af_publish_failed"))
	default:
		b.reply(chatID, b.localizer.Get("af_publish_failed"))
	}
	b.displayMainMenu(chatID)
}
