package voice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	openai "github.com/sashabaranov/go-openai"
)

type fakeResolver struct {
	file tgbotapi.File
	err  error
}

func (f fakeResolver) GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error) {
	return f.file, f.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error) {
	return openai.AudioResponse{Text: f.text}, f.err
}

// fixedResponse serves every request with the same status and body, so
// downloads never leave the test process.
type fixedResponse struct {
	status int
	body   []byte
}

func (f fixedResponse) RoundTrip(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader(f.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestPipeline(t *testing.T, transcriber Transcriber, rt http.RoundTripper) *Pipeline {
	t.Helper()
	return &Pipeline{
		api:    fakeResolver{file: tgbotapi.File{FileID: "file-id", FilePath: "voice/file_1.oga"}},
		token:  "bot-token",
		client: transcriber,
		model:  "whisper-1",
		dir:    t.TempDir(),
		http:   &http.Client{Transport: rt},
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{}, fixedResponse{status: http.StatusOK, body: []byte("audio-bytes")})

	localPath, err := p.Download("file-id", "unique-id")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if want := filepath.Join(p.dir, "unique-id.oga"); localPath != want {
		t.Fatalf("Download wrote to %q, want %q", localPath, want)
	}
	content, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("could not read downloaded file: %v", err)
	}
	if string(content) != "audio-bytes" {
		t.Fatalf("unexpected file content: %q", content)
	}
}

func TestDownloadNon200(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{}, fixedResponse{status: http.StatusNotFound})

	if _, err := p.Download("file-id", "unique-id"); err == nil {
		t.Fatal("expected an error for a failed download")
	}
	if _, err := os.Stat(filepath.Join(p.dir, "unique-id.oga")); !os.IsNotExist(err) {
		t.Fatal("a failed download must not leave a file behind")
	}
}

func TestDownloadResolveFailure(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{}, fixedResponse{status: http.StatusOK})
	p.api = fakeResolver{err: errors.New("bad file id")}

	if _, err := p.Download("file-id", "unique-id"); err == nil {
		t.Fatal("expected an error when the file path cannot be resolved")
	}
}

func TestTranscribeRemovesFileOnSuccess(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{text: "spoken words"}, fixedResponse{status: http.StatusOK, body: []byte("audio")})

	localPath, err := p.Download("file-id", "unique-id")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	text, err := p.Transcribe(context.Background(), localPath)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "spoken words" {
		t.Fatalf("unexpected transcript: %q", text)
	}
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Fatal("a successful transcription must delete its input file")
	}
}

func TestTranscribeFailureLeavesFile(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{err: errors.New("api down")}, fixedResponse{status: http.StatusOK, body: []byte("audio")})

	localPath, err := p.Download("file-id", "unique-id")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	if _, err := p.Transcribe(context.Background(), localPath); err == nil {
		t.Fatal("expected the transcription error to propagate")
	}
	if _, err := os.Stat(localPath); err != nil {
		t.Fatal("a failed transcription must leave the file for the caller")
	}

	p.Remove(localPath)
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Fatal("Remove must delete the file")
	}
}

func TestTranscribeWithoutClient(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, nil, fixedResponse{status: http.StatusOK})
	if _, err := p.Transcribe(context.Background(), "whatever.oga"); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
}

func TestSweepStale(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, fakeTranscriber{}, fixedResponse{status: http.StatusOK})

	old := filepath.Join(p.dir, "old.oga")
	fresh := filepath.Join(p.dir, "fresh.oga")
	other := filepath.Join(p.dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("could not write %s: %v", path, err)
		}
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("could not age %s: %v", old, err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatalf("could not age %s: %v", other, err)
	}

	p.SweepStale(time.Hour)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected the stale audio file removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("expected the fresh audio file kept")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("expected non-audio files untouched")
	}
}
