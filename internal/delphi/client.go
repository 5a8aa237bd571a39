package delphi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the Delphi CMS backend. One instance is shared by all
// chats; it holds no per-conversation state.
type Client struct {
	baseURL       string
	readAPIKey    string
	afAPIKey      string
	readingListID string
	http          *http.Client
}

func NewClient(baseURL, readAPIKey, afAPIKey, readingListID string) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		readAPIKey:    readAPIKey,
		afAPIKey:      afAPIKey,
		readingListID: readingListID,
		http:          &http.Client{},
	}
}

type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ReadSubmission struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url"`
	Taxonomy    []string `json:"taxonomy"`
	Tags        []string `json:"tags"`
	TgUsername  string   `json:"tg_username"`
}

type AfSubmission struct {
	Title             string   `json:"title"`
	Transcripts       []string `json:"transcripts"`
	CurrentTranscript string   `json:"currentTranscript"`
	AudioURL          string   `json:"audio_url"`
	TgUsername        string   `json:"tg_username"`
}

// LinkMetadata asks the backend to resolve title/description/image for a
// URL. Any non-200 status is a fetch failure; the caller restarts the flow.
func (c *Client) LinkMetadata(ctx context.Context, rawURL string) (*Metadata, error) {
	endpoint := fmt.Sprintf("%s/api/v1/reads/link-metadata?url=%s", c.baseURL, url.QueryEscape(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url metadata: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch url metadata: received %d for %s", res.StatusCode, rawURL)
	}
	var meta Metadata
	if err := json.NewDecoder(res.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("fetch url metadata: %w", err)
	}
	return &meta, nil
}

// EnsureNotDuplicate checks the first page of the reading list for an
// exactly-equal link. This is a recent-window check only: items older than
// the window are not caught.
func (c *Client) EnsureNotDuplicate(ctx context.Context, link string) error {
	endpoint := fmt.Sprintf("%s/api/v1/lists/%s/items?page=1&limit=50", c.baseURL, c.readingListID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch recent items: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch recent items: received %d", res.StatusCode)
	}
	var body struct {
		Data []struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("fetch recent items: %w", err)
	}
	for _, item := range body.Data {
		if item.Link == link {
			return ErrDuplicateRead
		}
	}
	return nil
}

func (c *Client) CreateRead(ctx context.Context, item ReadSubmission) error {
	return c.post(ctx, "/api/v1/bots/tg/create-read", c.readAPIKey, item, true)
}

func (c *Client) CreateAf(ctx context.Context, item AfSubmission) error {
	return c.post(ctx, "/api/v1/bots/tg/create-af", c.afAPIKey, item, false)
}

func (c *Client) post(ctx context.Context, path, apiKey string, payload interface{}, duplicateCheck bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case duplicateCheck && res.StatusCode == http.StatusConflict:
		return ErrDuplicateRead
	case res.StatusCode > http.StatusCreated:
		var errBody struct {
			Message string              `json:"message"`
			Errors  map[string][]string `json:"errors"`
		}
		if err := json.NewDecoder(res.Body).Decode(&errBody); err == nil && len(errBody.Errors) > 0 {
			fields := make(map[string]string, len(errBody.Errors))
			for field, msgs := range errBody.Errors {
				if len(msgs) > 0 {
					fields[field] = msgs[0]
				}
			}
			return &ValidationError{Message: errBody.Message, Fields: fields}
		}
		return ErrUnknown
	}
	return nil
}
