package bot

import (
	"context"
	"log"
	"strings"

	"reads-bot/config"
	"reads-bot/internal/delphi"
	"reads-bot/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the slice of the Telegram API the handlers use to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type delphiAPI interface {
	LinkMetadata(ctx context.Context, rawURL string) (*delphi.Metadata, error)
	EnsureNotDuplicate(ctx context.Context, link string) error
	CreateRead(ctx context.Context, item delphi.ReadSubmission) error
	CreateAf(ctx context.Context, item delphi.AfSubmission) error
}

type summarizer interface {
	Summarize(ctx context.Context, rawURL string) (string, error)
}

type voicePipeline interface {
	Download(fileID, uniqueID string) (string, error)
	Transcribe(ctx context.Context, localPath string) (string, error)
	Remove(localPath string)
}

type editorStore interface {
	IsEditor(userID int64) (bool, error)
	SetEditor(userID int64, isEditor bool) error
	RecordPublished(chatID int64, kind, title, link string) error
}

type TelegramBot struct {
	client     *tgbotapi.BotAPI
	api        sender
	cfg        *config.Config
	localizer  *localization.Localizer
	sessions   *SessionStore
	delphi     delphiAPI
	summarizer summarizer
	voice      voicePipeline
	storage    editorStore
	ctx        context.Context
}

func NewBot(
	ctx context.Context,
	cfg *config.Config,
	localizer *localization.Localizer,
	sessions *SessionStore,
	client *tgbotapi.BotAPI,
	delphiClient delphiAPI,
	sum summarizer,
	voice voicePipeline,
	storage editorStore,
) *TelegramBot {
	return &TelegramBot{
		client:     client,
		api:        client,
		cfg:        cfg,
		localizer:  localizer,
		sessions:   sessions,
		delphi:     delphiClient,
		summarizer: sum,
		voice:      voice,
		storage:    storage,
		ctx:        ctx,
	}
}

func (b *TelegramBot) Start() {
	b.client.Debug = false
	log.Printf("Authorized on account %s", b.client.Self.UserName)
	b.listenForUpdates()
}

func (b *TelegramBot) listenForUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)
	for update := range updates {
		if update.CallbackQuery != nil {
			if !b.isEditor(update.CallbackQuery.From.ID) {
				b.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, b.localizer.Get("permission_denied")))
				continue
			}
			b.handleCallbackQuery(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *TelegramBot) handleMessage(message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(message)
		return
	}
	if !b.isEditor(message.From.ID) {
		b.reply(message.Chat.ID, b.localizer.Get("permission_denied"))
		return
	}

	sess := b.sessions.Get(message.Chat.ID)

	if message.Voice != nil {
		b.handleVoiceMessage(message, sess)
		return
	}
	if message.Text == "" {
		b.reply(message.Chat.ID, b.localizer.Get("expect_text_or_voice"))
		return
	}

	switch {
	case message.Text == "state":
		b.handleStateDump(message.Chat.ID, sess)
	case strings.HasPrefix(message.Text, "http:"), strings.HasPrefix(message.Text, "https:"):
		// A pasted URL starts a fresh Reads flow no matter what state
		// the chat was in.
		b.handleUpdateURL(message.Chat.ID, sess, message.Text)
	default:
		b.handleStatefulMessage(message, sess)
	}
}

func (b *TelegramBot) isEditor(userID int64) bool {
	if userID == b.cfg.SuperAdminID {
		return true
	}
	isEditor, err := b.storage.IsEditor(userID)
	if err != nil {
		log.Printf("Could not check editor status for user %d: %v", userID, err)
		return false
	}
	return isEditor
}

func (b *TelegramBot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
