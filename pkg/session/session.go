// Package session persists editor workspace state between runs.
//
// A session records the recently opened levels and the editor preferences
// that should survive a restart (active layer, snap overrides, tileset
// metadata path). Sessions are stored as JSON files in a config directory,
// one file per named workspace.
//
// # Usage
//
//	store, err := session.NewFileStore("") // Uses ~/.config/tiledraft/sessions/
//	if err != nil {
//	    return err
//	}
//	sess, err := store.Get(ctx, "default")
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    sess = session.New("default")
//	}
//	sess.Touch("levels/1-1.toml")
//	store.Set(ctx, sess)
package session

import (
	"time"
)

// MaxRecents caps the most-recently-used level list.
const MaxRecents = 10

// Preferences are the editor settings a session carries across runs.
type Preferences struct {
	// Layer is the active editing layer.
	Layer int `json:"layer"`

	// SnapOverride disables position snapping entirely.
	SnapOverride bool `json:"snap_override,omitempty"`

	// TilesetPath is the last loaded tileset metadata file.
	TilesetPath string `json:"tileset_path,omitempty"`
}

// Session stores one workspace's persisted state.
type Session struct {
	ID          string      `json:"id"`
	Recents     []string    `json:"recents,omitempty"`
	Preferences Preferences `json:"preferences"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// New creates an empty session for the given workspace ID.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch moves path to the front of the recents list, dropping the oldest
// entry past the cap. Paths are compared verbatim; callers normalize.
func (s *Session) Touch(path string) {
	recents := make([]string, 0, len(s.Recents)+1)
	recents = append(recents, path)
	for _, r := range s.Recents {
		if r != path {
			recents = append(recents, r)
		}
	}
	if len(recents) > MaxRecents {
		recents = recents[:MaxRecents]
	}
	s.Recents = recents
	s.UpdatedAt = time.Now()
}

// Forget removes path from the recents list.
func (s *Session) Forget(path string) {
	for i, r := range s.Recents {
		if r == path {
			s.Recents = append(s.Recents[:i], s.Recents[i+1:]...)
			s.UpdatedAt = time.Now()
			return
		}
	}
}
