package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"
)

// SessionEntry is one prompt/response exchange in a session.
type SessionEntry struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a persisted conversation with the model.
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Entries   []SessionEntry `json:"entries"`
}

// SessionManager persists sessions as JSON files under the session directory
// (~/.clion/sessions by default).
type SessionManager struct {
	dir string
}

// NewSessionManager initializes a session manager rooted at dir; an empty dir
// selects ~/.clion/sessions.
func NewSessionManager(dir string) (*SessionManager, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = filepath.Join(".", "sessions")
		} else {
			dir = filepath.Join(home, ".clion", "sessions")
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &SessionManager{dir: dir}, nil
}

// NewSession creates an empty session with a timestamp-derived ID.
func (manager *SessionManager) NewSession() *Session {
	now := time.Now().UTC()
	seed := fmt.Sprintf("%d", now.UnixNano())
	return &Session{
		ID:        fmt.Sprintf("session-%s-%08x", now.Format("20060102-150405"), uint32(xxh3.HashString(seed))),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry appends a role/content entry. The entry ID is an xxh3 hash of
// role, content and timestamp, so identical exchanges still get distinct IDs.
func (session *Session) AddEntry(role string, content string) {
	now := time.Now().UTC()
	hash := xxh3.HashString(role + "\x00" + content + "\x00" + now.Format(time.RFC3339Nano))
	session.Entries = append(session.Entries, SessionEntry{
		ID:        fmt.Sprintf("%016x", hash),
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	session.UpdatedAt = now
}

// History renders the session entries as "role: content" strings for prompt
// replay.
func (session *Session) History() []string {
	history := make([]string, len(session.Entries))
	for i, entry := range session.Entries {
		history[i] = fmt.Sprintf("%s: %s", entry.Role, entry.Content)
	}
	return history
}

// ClearHistory drops all entries but keeps the session identity.
func (session *Session) ClearHistory() {
	session.Entries = nil
	session.UpdatedAt = time.Now().UTC()
}

// Save writes the session to its JSON file.
func (manager *SessionManager) Save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := manager.sessionPath(session.ID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads a session by ID. A missing session file yields a fresh session
// under that ID rather than an error.
func (manager *SessionManager) Load(id string) (*Session, error) {
	data, err := os.ReadFile(manager.sessionPath(id))
	if os.IsNotExist(err) {
		session := manager.NewSession()
		session.ID = id
		return session, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// List returns the IDs of all persisted sessions.
func (manager *SessionManager) List() ([]string, error) {
	entries, err := os.ReadDir(manager.dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) == ".json" {
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}
	return ids, nil
}

func (manager *SessionManager) sessionPath(id string) string {
	return filepath.Join(manager.dir, id+".json")
}
