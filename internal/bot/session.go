package bot

import "sync"

// State is the per-chat conversation state. Exactly one is active at a
// time; StateBuild is transient and only used to decide which missing
// field to prompt for next, it is never prompted to the user directly.
type State string

const (
	StateNone             State = "none"
	StateAwaitURL         State = "await_url"
	StateAwaitTitle       State = "await_title"
	StateAwaitDescription State = "await_description"
	StateAwaitVoiceTitle  State = "await_voice_title"
	StateAwaitTranscript  State = "await_transcript"
	StateAwaitMemo        State = "await_memo"
	StateBuild            State = "build"
)

// ReadsItem is a curated-link submission under construction. Link must be
// set before any other field may be edited; every field-setting entry
// point enforces that through ensureLinkSet.
type ReadsItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Taxonomy    []string `json:"taxonomy"`
	Tags        []string `json:"tags"`
}

// AfPostItem is a voice-memo post under construction. Transcripts is
// append-only until reset; CurrentTranscript holds the single pending
// transcript and is overwritten by each new memo.
type AfPostItem struct {
	Title             string   `json:"title"`
	Transcripts       []string `json:"transcripts"`
	CurrentTranscript string   `json:"currentTranscript"`
	AudioURL          string   `json:"audio_url"`
}

type Session struct {
	State      State      `json:"state"`
	ReadsItem  ReadsItem  `json:"readsItem"`
	AfPostItem AfPostItem `json:"afPostItem"`
}

func newSession() *Session {
	return &Session{
		State:      StateNone,
		ReadsItem:  ReadsItem{Taxonomy: []string{}, Tags: []string{}},
		AfPostItem: AfPostItem{Transcripts: []string{}},
	}
}

// Reset discards any in-progress items and returns the session to
// StateNone. Called on "start over" and after a successful publish.
func (s *Session) Reset() {
	fresh := newSession()
	s.State = fresh.State
	s.ReadsItem = fresh.ReadsItem
	s.AfPostItem = fresh.AfPostItem
}

// SessionStore holds one Session per chat. Sessions are created on first
// interaction and live for the process lifetime. Updates for one chat are
// processed sequentially, but the map itself is shared, so access is
// mutex-guarded.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

func (s *SessionStore) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession()
		s.sessions[chatID] = sess
	}
	return sess
}
