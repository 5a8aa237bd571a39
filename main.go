package main

import (
	"context"
	"embed"
	"log"
	"time"

	"reads-bot/config"
	"reads-bot/internal/ai"
	"reads-bot/internal/bot"
	"reads-bot/internal/delphi"
	"reads-bot/internal/localization"
	"reads-bot/internal/scheduler"
	"reads-bot/internal/storage"
	"reads-bot/internal/voice"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	openai "github.com/sashabaranov/go-openai"
)

//go:embed locales
var localeFiles embed.FS

func main() {
	log.Println("Starting Delphi Reads Bot...")

	ctx := context.Background()
	cfg := config.LoadConfig()

	dbStorage, err := storage.NewStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStorage.Close()

	if err := dbStorage.SetEditor(cfg.SuperAdminID, true); err != nil {
		log.Fatalf("Failed to set super admin editor status: %v", err)
	}
	log.Printf("Super admin with ID %d ensured.", cfg.SuperAdminID)

	localizer := localization.NewLocalizer(localeFiles, cfg.DefaultLanguage)

	tgClient, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)
	delphiClient := delphi.NewClient(cfg.DelphiBaseURL, cfg.CreateReadAPIKey, cfg.CreateAfAPIKey, cfg.ReadingListID)
	summarizer := ai.NewSummarizer(openaiClient, cfg.OpenAIModel)
	voicePipeline := voice.NewPipeline(tgClient, cfg.TelegramBotToken, openaiClient, cfg.WhisperModel, cfg.AudioFileDir)

	appScheduler, err := scheduler.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	audioMaxAge := time.Duration(cfg.AudioMaxAgeMin) * time.Minute
	appScheduler.AddJob(audioMaxAge, func() {
		voicePipeline.SweepStale(audioMaxAge)
	})
	appScheduler.Start()
	defer appScheduler.Stop()

	telegramBot := bot.NewBot(ctx, &cfg, localizer, bot.NewSessionStore(), tgClient, delphiClient, summarizer, voicePipeline, dbStorage)
	log.Println("Bot is running...")
	telegramBot.Start()
}
