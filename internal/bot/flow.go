package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"reads-bot/internal/delphi"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxDescriptionLength = 500

// truncateString caps text at maxLength characters, not bytes, so
// multibyte descriptions survive as valid UTF-8.
func truncateString(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength-3]) + "..."
}

/*
 * Guards
 */

// ensureLinkSet reports whether the Reads flow may proceed. When it
// returns false a prompt has already been issued.
func (b *TelegramBot) ensureLinkSet(chatID int64, sess *Session) bool {
	if sess.ReadsItem.Link == "" {
		b.reply(chatID, b.localizer.Get("link_first"))
		return false
	}
	return true
}

// ensureRequiredAfPostFields redirects to whichever required AF field is
// missing; the title prompt takes priority over the transcript prompt.
func (b *TelegramBot) ensureRequiredAfPostFields(chatID int64, sess *Session) bool {
	if sess.AfPostItem.Title == "" {
		sess.State = StateAwaitVoiceTitle
		b.reply(chatID, b.localizer.Get("af_needs_title"))
		return false
	}
	if len(sess.AfPostItem.Transcripts) == 0 {
		sess.State = StateAwaitTranscript
		b.notifyNeedsTranscript(chatID)
		return false
	}
	return true
}

/*
 * Flow entry points
 */

func (b *TelegramBot) handleNewRead(chatID int64, sess *Session) {
	sess.Reset()
	sess.State = StateAwaitURL
	b.reply(chatID, b.localizer.Get("ask_url"))
}

func (b *TelegramBot) handleNewAfPost(chatID int64, sess *Session) {
	sess.Reset()
	sess.State = StateAwaitMemo
	b.reply(chatID, b.localizer.Get("ask_memo"))
}

// handleUpdateURL ingests a pasted URL: any in-progress edits are
// discarded, the normalized link is stored immediately so duplicate and
// failure messaging can reference it, then metadata, duplicate check,
// summary, and default tags are applied before entering the build state.
func (b *TelegramBot) handleUpdateURL(chatID int64, sess *Session, rawURL string) {
	sess.Reset()
	b.reply(chatID, b.localizer.Get("fetching_url"))

	cleanURL := NormalizeURL(rawURL)
	sess.ReadsItem.Link = cleanURL

	meta, err := b.delphi.LinkMetadata(b.ctx, cleanURL)
	if err == nil {
		err = b.delphi.EnsureNotDuplicate(b.ctx, cleanURL)
	}
	if err != nil {
		log.Printf("Error processing url %s: %v", cleanURL, err)
		if errors.Is(err, delphi.ErrDuplicateRead) {
			b.reply(chatID, b.localizer.Get("duplicate_url"))
			sess.Reset()
			b.displayMainMenu(chatID)
			return
		}
		b.reply(chatID, b.localizer.Get("fetch_url_failed"))
		b.handleNewRead(chatID, sess)
		return
	}

	if isTwitterURL(cleanURL) {
		// Tweet text arrives as the metadata description; no AI summary.
		sess.ReadsItem.Description = truncateString(meta.Description, maxDescriptionLength)
	} else {
		sess.ReadsItem.Title = meta.Title
		summary, err := b.summarizer.Summarize(b.ctx, rawURL)
		if err != nil {
			log.Printf("Error generating summary for %s: %v", cleanURL, err)
			sess.ReadsItem.Description = truncateString(meta.Description, maxDescriptionLength)
			b.reply(chatID, b.localizer.Get("summary_failed"))
		} else {
			sess.ReadsItem.Description = truncateString(summary, maxDescriptionLength)
		}
	}

	sess.ReadsItem.Tags = DefaultTagsForURL(cleanURL)
	sess.ReadsItem.ImageURL = meta.Image
	sess.State = StateBuild
	b.nextCreateReadState(chatID, sess)
}

// nextCreateReadState is the "what's missing" decision procedure: prompt
// for the first unset required field, or show the preview when the item
// is complete.
func (b *TelegramBot) nextCreateReadState(chatID int64, sess *Session) {
	if sess.State != StateBuild {
		return
	}
	if sess.ReadsItem.Title == "" {
		b.promptSetTitle(chatID, sess)
		return
	}
	if len(sess.ReadsItem.Taxonomy) < 1 {
		b.promptSetTaxonomy(chatID, sess)
		return
	}
	if len(sess.ReadsItem.Tags) < 1 {
		b.promptSetTag(chatID, sess)
		return
	}
	b.replyWithPreview(chatID, sess)
}

/*
 * Field prompts
 */

func (b *TelegramBot) promptSetTitle(chatID int64, sess *Session) {
	if !b.ensureLinkSet(chatID, sess) {
		return
	}
	sess.State = StateAwaitTitle
	b.reply(chatID, b.localizer.Get("ask_title"))
}

func (b *TelegramBot) promptSetDescription(chatID int64, sess *Session) {
	if !b.ensureLinkSet(chatID, sess) {
		return
	}
	sess.State = StateAwaitDescription
	b.reply(chatID, b.localizer.Get("ask_description"))
}

func (b *TelegramBot) promptSetTaxonomy(chatID int64, sess *Session) {
	if !b.ensureLinkSet(chatID, sess) {
		return
	}
	b.displayOptionMenu(chatID, Sectors, "setsector", "sector")
}

func (b *TelegramBot) promptSetTag(chatID int64, sess *Session) {
	if !b.ensureLinkSet(chatID, sess) {
		return
	}
	b.displayOptionMenu(chatID, Types, "settype", "type")
}

func (b *TelegramBot) promptSetAfPostTitle(chatID int64, sess *Session) {
	if !b.ensureRequiredAfPostFields(chatID, sess) {
		return
	}
	sess.State = StateAwaitVoiceTitle
	b.reply(chatID, b.localizer.Get("ask_title"))
}

/*
 * Field updates
 */

func (b *TelegramBot) handleUpdateTitle(chatID int64, sess *Session, title string) {
	sess.ReadsItem.Title = title
	sess.State = StateBuild
	b.nextCreateReadState(chatID, sess)
}

// handleUpdateDescription rejects oversize input outright (the user is
// re-prompted, nothing is truncated) and treats the literal "none" as a
// request to clear the field.
func (b *TelegramBot) handleUpdateDescription(chatID int64, sess *Session, description string) {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		b.reply(chatID, b.localizer.Get("description_too_long"))
		b.promptSetDescription(chatID, sess)
		return
	}
	if description == "none" {
		description = ""
	}
	sess.ReadsItem.Description = description
	sess.State = StateBuild
	b.nextCreateReadState(chatID, sess)
}

func (b *TelegramBot) handleUpdateAfPostTitle(chatID int64, sess *Session, title string) {
	sess.AfPostItem.Title = title
	b.reply(chatID, b.localizer.Getf("af_title_set", title))
	b.displayCreateAfPostMenu(chatID)
}

/*
 * Transcript actions
 */

func (b *TelegramBot) notifyNeedsTranscript(chatID int64) {
	b.reply(chatID, b.localizer.Get("needs_transcript"))
}

func (b *TelegramBot) handleSaveCurrentTranscription(chatID int64, sess *Session) {
	if sess.AfPostItem.CurrentTranscript == "" {
		b.reply(chatID, b.localizer.Get("no_transcript_to_save"))
		return
	}
	sess.AfPostItem.Transcripts = append(sess.AfPostItem.Transcripts, sess.AfPostItem.CurrentTranscript)
	sess.AfPostItem.CurrentTranscript = ""
	b.reply(chatID, b.localizer.Get("transcript_saved"))
}

func (b *TelegramBot) handleViewCurrentTranscription(chatID int64, sess *Session) {
	if sess.AfPostItem.CurrentTranscript == "" {
		b.reply(chatID, b.localizer.Get("must_record_first"))
		return
	}
	b.reply(chatID, b.localizer.Getf("view_current_transcript", sess.AfPostItem.CurrentTranscript))
}

func (b *TelegramBot) handleAnotherVoice(chatID int64, sess *Session) {
	sess.AfPostItem.CurrentTranscript = ""
	b.reply(chatID, b.localizer.Get("record_new_memo"))
}

func (b *TelegramBot) handleViewAfPost(chatID int64, sess *Session) {
	title := sess.AfPostItem.Title
	if title == "" {
		title = b.localizer.Get("not_set")
	}
	body := strings.Join(sess.AfPostItem.Transcripts, "\n\n")
	if body == "" {
		body = b.localizer.Get("not_set")
	}
	b.reply(chatID, b.localizer.Get("af_view_header"))
	b.reply(chatID, b.localizer.Getf("af_view_title", title))
	b.reply(chatID, b.localizer.Getf("af_view_body", body))
}

func (b *TelegramBot) handlePromptForImage(chatID int64) {
	b.reply(chatID, b.localizer.Get("image_support_soon"))
}

// handleStateDump echoes the raw session as a fenced JSON block. Debug
// helper for the editorial team.
func (b *TelegramBot) handleStateDump(chatID int64, sess *Session) {
	dump, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal session for chat %d: %v", chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("```\n%s\n```", dump))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send state dump: %v", err)
	}
}
