package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"     required:"true"`
	DelphiBaseURL    string `envconfig:"DELPHI_BASE_URL"    required:"true"`
	CreateReadAPIKey string `envconfig:"CREATE_READ_API_KEY" required:"true"`
	CreateAfAPIKey   string `envconfig:"CREATE_AF_API_KEY"   required:"true"`
	ReadingListID    string `envconfig:"READING_LIST_ID"     required:"true"`
	SuperAdminID     int64  `envconfig:"SUPER_ADMIN_ID"      required:"true"`
	DatabasePath     string `envconfig:"DATABASE_PATH"         default:"readsbot.db"`
	AudioFileDir     string `envconfig:"AUDIO_FILE_DIRECTORY"  default:"audio_files"`
	AudioMaxAgeMin   int    `envconfig:"AUDIO_MAX_AGE_MINUTES" default:"60"`
	OpenAIModel      string `envconfig:"OPENAI_MODEL"  default:"gpt-3.5-turbo"`
	WhisperModel     string `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	DefaultLanguage  string `envconfig:"DEFAULT_LANGUAGE" default:"en"`
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config
	err = envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Failed to process configuration: %v", err)
	}

	return cfg
}
