package delphi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnsureNotDuplicate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/lists/reading-list/items" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("limit") != "50" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"link":"https://x.com/user/status/5"},{"link":"https://example.com/a"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "read-key", "af-key", "reading-list")

	err := client.EnsureNotDuplicate(context.Background(), "https://example.com/a")
	if !errors.Is(err, ErrDuplicateRead) {
		t.Fatalf("expected ErrDuplicateRead for a link in the window, got %v", err)
	}

	err = client.EnsureNotDuplicate(context.Background(), "https://example.com/new")
	if err != nil {
		t.Fatalf("expected no error for a link absent from the window, got %v", err)
	}
}

func TestLinkMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://example.com/a" {
			t.Errorf("unexpected url param: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"A Title","description":"A description","image":"https://example.com/img.png"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
	meta, err := client.LinkMetadata(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("LinkMetadata returned error: %v", err)
	}
	if meta.Title != "A Title" || meta.Description != "A description" || meta.Image != "https://example.com/img.png" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestLinkMetadataNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
	if _, err := client.LinkMetadata(context.Background(), "https://example.com/a"); err == nil {
		t.Fatal("expected an error for a non-200 metadata response")
	}
}

func TestCreateReadContract(t *testing.T) {
	t.Parallel()

	item := ReadSubmission{
		Title:      "A Title",
		Link:       "https://example.com/a",
		Taxonomy:   []string{"ai"},
		Tags:       []string{"reads"},
		TgUsername: "editor",
	}

	t.Run("success sends api key and username", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/bots/tg/create-read" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Header.Get("x-api-key") != "read-key" {
				t.Errorf("missing api key header")
			}
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("could not decode body: %v", err)
			}
			if body["tg_username"] != "editor" {
				t.Errorf("expected tg_username in body, got %v", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
		if err := client.CreateRead(context.Background(), item); err != nil {
			t.Fatalf("CreateRead returned error: %v", err)
		}
	})

	t.Run("403 is unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
		if err := client.CreateRead(context.Background(), item); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("409 is duplicate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
		if err := client.CreateRead(context.Background(), item); !errors.Is(err, ErrDuplicateRead) {
			t.Fatalf("expected ErrDuplicateRead, got %v", err)
		}
	})

	t.Run("validation errors are surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Validation failed","errors":{"title":["is required"]}}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
		err := client.CreateRead(context.Background(), item)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		want := "Validation failed: [title]: is required."
		if validationErr.UserMessage() != want {
			t.Fatalf("UserMessage() = %q, want %q", validationErr.UserMessage(), want)
		}
	})

	t.Run("opaque failure is unknown", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
		if err := client.CreateRead(context.Background(), item); !errors.Is(err, ErrUnknown) {
			t.Fatalf("expected ErrUnknown, got %v", err)
		}
	})
}

func TestCreateAfDoesNotMapConflict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "af-key" {
			t.Errorf("expected af api key, got %q", r.Header.Get("x-api-key"))
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "read-key", "af-key", "reading-list")
	err := client.CreateAf(context.Background(), AfSubmission{Title: "t", Transcripts: []string{"a"}})
	if errors.Is(err, ErrDuplicateRead) {
		t.Fatal("409 on the AF endpoint must not map to ErrDuplicateRead")
	}
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}
