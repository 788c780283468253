package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PreferencesVersion is the current on-disk schema version. Older files are
// migrated forward on load.
const PreferencesVersion = 1

// UserPreferences is the only state that survives process restarts: the
// user's selected chain. Session state is deliberately not part of this.
type UserPreferences struct {
	Version         int   `json:"version"`
	SelectedChainID int64 `json:"selectedChainId"`
}

// PreferencesRepository persists user preferences.
type PreferencesRepository interface {
	// Load returns the stored preferences, or defaults when nothing is stored.
	Load() (UserPreferences, error)

	// Save stores the preferences, stamping the current schema version.
	Save(prefs UserPreferences) error
}

// filePreferencesRepository stores preferences as a small JSON file.
type filePreferencesRepository struct {
	path           string
	defaultChainID int64
	mu             sync.Mutex
}

// NewFilePreferencesRepository creates a file-backed preferences repository.
// defaultChainID is used when no file exists or a stored value is unusable.
func NewFilePreferencesRepository(path string, defaultChainID int64) PreferencesRepository {
	return &filePreferencesRepository{path: path, defaultChainID: defaultChainID}
}

// Load implements the PreferencesRepository interface.
func (r *filePreferencesRepository) Load() (UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defaults := UserPreferences{Version: PreferencesVersion, SelectedChainID: r.defaultChainID}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("failed to read preferences file %s: %w", r.path, err)
	}

	var prefs UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		// A corrupt file is not worth failing startup over.
		return defaults, nil
	}

	if prefs.Version < PreferencesVersion {
		prefs = migrate(prefs, r.defaultChainID)
		if err := r.write(prefs); err != nil {
			return prefs, fmt.Errorf("failed to persist migrated preferences: %w", err)
		}
	}
	if prefs.SelectedChainID == 0 {
		prefs.SelectedChainID = r.defaultChainID
	}
	return prefs, nil
}

// Save implements the PreferencesRepository interface.
func (r *filePreferencesRepository) Save(prefs UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs.Version = PreferencesVersion
	return r.write(prefs)
}

// write persists atomically via a temp file rename.
func (r *filePreferencesRepository) write(prefs UserPreferences) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory %s: %w", dir, err)
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp preferences file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp preferences file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}

// migrate upgrades an older preferences payload to the current version.
// Version 0 files predate explicit versioning; the selected chain carries over.
func migrate(prefs UserPreferences, defaultChainID int64) UserPreferences {
	if prefs.SelectedChainID == 0 {
		prefs.SelectedChainID = defaultChainID
	}
	prefs.Version = PreferencesVersion
	return prefs
}

// inMemoryPreferencesRepository holds preferences in process memory only.
// Used in tests and when no preferences file is configured.
type inMemoryPreferencesRepository struct {
	mu    sync.Mutex
	prefs UserPreferences
}

// NewInMemoryPreferencesRepository creates a memory-backed repository seeded
// with the default chain.
func NewInMemoryPreferencesRepository(defaultChainID int64) PreferencesRepository {
	return &inMemoryPreferencesRepository{
		prefs: UserPreferences{Version: PreferencesVersion, SelectedChainID: defaultChainID},
	}
}

func (r *inMemoryPreferencesRepository) Load() (UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs, nil
}

func (r *inMemoryPreferencesRepository) Save(prefs UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs.Version = PreferencesVersion
	r.prefs = prefs
	return nil
}
