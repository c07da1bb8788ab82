// Package prefs persists small per-user settings across sessions,
// currently just the last used document id.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type settings struct {
	LastDocumentID string `json:"lastDocumentId"`
}

// Prefs is a JSON file under the user's config directory.
type Prefs struct {
	path string
}

// New locates the default prefs file.
func New() (*Prefs, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("prefs.New: %w", err)
	}
	return NewAt(filepath.Join(dir, "myaccounttracker", "prefs.json")), nil
}

// NewAt uses an explicit file path, for tests.
func NewAt(path string) *Prefs {
	return &Prefs{path: path}
}

// LastDocumentID returns the remembered document id, or empty when none
// is stored or the file is unreadable.
func (p *Prefs) LastDocumentID() string {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return ""
	}
	var s settings
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s.LastDocumentID
}

// SetLastDocumentID persists the document id for the next session.
func (p *Prefs) SetLastDocumentID(id string) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("SetLastDocumentID: %w", err)
	}
	data, err := json.Marshal(settings{LastDocumentID: id})
	if err != nil {
		return fmt.Errorf("SetLastDocumentID: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("SetLastDocumentID: %w", err)
	}
	return nil
}
