package localization

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
)

const fallbackLang = "en"

type Localizer struct {
	defaultLang string
	messages    map[string]map[string]string
}

func NewLocalizer(dir fs.FS, defaultLang string) *Localizer {
	messages := make(map[string]map[string]string)

	files, err := fs.ReadDir(dir, "locales")
	if err != nil {
		log.Fatalf("Failed to read locales directory: %v", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		lang := file.Name()[:len(file.Name())-len(".json")]
		content, err := fs.ReadFile(dir, filepath.Join("locales", file.Name()))
		if err != nil {
			log.Printf("Failed to read locale file %s: %v", file.Name(), err)
			continue
		}

		var langMessages map[string]string
		if err := json.Unmarshal(content, &langMessages); err != nil {
			log.Printf("Failed to parse locale file %s: %v", file.Name(), err)
			continue
		}
		messages[lang] = langMessages
		log.Printf("Loaded language: %s", lang)
	}

	if defaultLang == "" {
		defaultLang = fallbackLang
	}
	return &Localizer{defaultLang: defaultLang, messages: messages}
}

// Get returns the message for the default language, falling back to
// English and finally to the key itself so a missing entry is visible
// in chat instead of silently dropped.
func (l *Localizer) Get(key string) string {
	if langMessages, ok := l.messages[l.defaultLang]; ok {
		if message, ok := langMessages[key]; ok {
			return message
		}
	}

	if defaultMessages, ok := l.messages[fallbackLang]; ok {
		if message, ok := defaultMessages[key]; ok {
			return message
		}
	}

	return key
}

// Getf is Get with fmt.Sprintf applied.
func (l *Localizer) Getf(key string, args ...interface{}) string {
	return fmt.Sprintf(l.Get(key), args...)
}
