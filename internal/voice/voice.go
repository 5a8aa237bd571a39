package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	openai "github.com/sashabaranov/go-openai"
)

const audioFileExtension = ".oga"

var ErrNoClient = errors.New("voice: no OpenAI client configured")

// FileResolver is the slice of the Telegram bot API used to resolve a
// voice note's server-side file path.
type FileResolver interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Transcriber is the slice of the OpenAI client used for speech-to-text.
type Transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Pipeline downloads voice notes from Telegram file storage into a local
// scratch directory and transcribes them. Local files are transient: a
// successful transcription deletes its input, and SweepStale collects
// anything a failed attempt left behind.
type Pipeline struct {
	api    FileResolver
	token  string
	client Transcriber
	model  string
	dir    string
	http   *http.Client
}

func NewPipeline(api FileResolver, botToken string, client Transcriber, model, dir string) *Pipeline {
	return &Pipeline{
		api:    api,
		token:  botToken,
		client: client,
		model:  model,
		dir:    dir,
		http:   &http.Client{},
	}
}

// Download resolves fileID via the bot API and streams the binary content
// to <dir>/<uniqueID>.oga. The file is fully written and closed before the
// path is returned, so transcription never reads a partial file.
func (p *Pipeline) Download(fileID, uniqueID string) (string, error) {
	file, err := p.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("resolve telegram file path: %w", err)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	localPath := filepath.Join(p.dir, uniqueID+audioFileExtension)

	res, err := p.http.Get(file.Link(p.token))
	if err != nil {
		return "", fmt.Errorf("download voice file: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download voice file: status code %d", res.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, res.Body); err != nil {
		out.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("write voice file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

// Transcribe submits the local file to the speech-to-text service and
// deletes it on success. If transcription fails the file is left in place;
// cleanup then falls to the caller (or the stale sweep).
func (p *Pipeline) Transcribe(ctx context.Context, localPath string) (string, error) {
	if p.client == nil {
		return "", ErrNoClient
	}
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: localPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	if err := os.Remove(localPath); err != nil {
		log.Printf("Could not remove transcribed audio file %s: %v", localPath, err)
	}
	return resp.Text, nil
}

// Remove deletes a downloaded file after a failed transcription.
func (p *Pipeline) Remove(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not remove audio file %s: %v", localPath, err)
	}
}

// SweepStale removes audio files older than maxAge. Files only survive a
// transcription attempt when that attempt failed, so anything old here is
// an orphan.
func (p *Pipeline) SweepStale(maxAge time.Duration) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read audio directory %s: %v", p.dir, err)
		}
		return
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != audioFileExtension {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(p.dir, entry.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Removed %d stale audio file(s) from %s", removed, p.dir)
	}
}
