// Package store persists webhook registration state between CLI runs.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"gopkg.in/yaml.v3"
)

// Entry is the persisted state of one trigger.
type Entry struct {
	ID        string    `json:"id"         yaml:"id"`
	URL       string    `json:"url"        yaml:"url"`
	Event     string    `json:"event"      yaml:"event"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

type stateFile struct {
	Webhooks map[string]Entry `yaml:"webhooks"`
}

// FileStaticData is a webhook.StaticData kept in a YAML file shared by all
// triggers. Each trigger is addressed by its callback URL and event. Changes
// are held in memory until Flush.
type FileStaticData struct {
	mu    sync.Mutex
	path  string
	key   string
	url   string
	event string
	state stateFile
	dirty bool
}

// Key identifies a trigger inside the state file.
func Key(webhookURL, event string) string {
	return event + " " + webhookURL
}

// Open loads path, which may not exist yet, and selects the trigger entry
// for (webhookURL, event).
func Open(path, webhookURL, event string) (*FileStaticData, error) {
	data := &FileStaticData{
		path:  path,
		key:   Key(webhookURL, event),
		url:   webhookURL,
		event: event,
	}

	state, err := readState(path)
	if err != nil {
		return nil, err
	}

	data.state = state

	return data, nil
}

// Entries reads every trigger recorded in path.
func Entries(path string) (map[string]Entry, error) {
	state, err := readState(path)
	if err != nil {
		return nil, err
	}

	return state.Webhooks, nil
}

func (f *FileStaticData) WebhookID() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state.Webhooks[f.key].ID
}

func (f *FileStaticData) SetWebhookID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Webhooks[f.key] = Entry{
		ID:        id,
		URL:       f.url,
		Event:     f.event,
		UpdatedAt: time.Now().UTC(),
	}
	f.dirty = true
}

func (f *FileStaticData) ClearWebhookID() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.state.Webhooks[f.key]; !ok {
		return
	}

	delete(f.state.Webhooks, f.key)
	f.dirty = true
}

// Flush writes pending changes to disk.
func (f *FileStaticData) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty {
		return nil
	}

	err := os.MkdirAll(filepath.Dir(f.path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	out, err := yaml.Marshal(&f.state)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook state: %w", err)
	}

	err = os.WriteFile(f.path, out, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write webhook state: %w", err)
	}

	f.dirty = false

	return nil
}

func readState(path string) (stateFile, error) {
	state := stateFile{Webhooks: map[string]Entry{}}

	// path comes from the CLI's own config directory or an explicit flag
	// #nosec G304
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}

	if err != nil {
		return state, fmt.Errorf("failed to read webhook state: %w", err)
	}

	err = yaml.Unmarshal(raw, &state)
	if err != nil {
		return state, fmt.Errorf("failed to parse webhook state %s: %w", path, err)
	}

	if state.Webhooks == nil {
		state.Webhooks = map[string]Entry{}
	}

	return state, nil
}
