package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type persistedState struct {
	Tokens TokenPair   `json:"tokens"`
	User   models.User `json:"user"`
}

// Store keeps the token pair and identity in a JSON file so a login survives
// process restarts. Cleared on logout and on irrecoverable refresh failure.
type Store struct {
	path string
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(configDir, "pharmaconnect", "session.json")
	}
	return &Store{path: path}, nil
}

func (s *Store) Load() (TokenPair, models.User, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return TokenPair{}, models.User{}, false, nil
		}
		return TokenPair{}, models.User{}, false, fmt.Errorf("read session file: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return TokenPair{}, models.User{}, false, fmt.Errorf("decode session file: %w", err)
	}
	if state.Tokens.AccessToken == "" || state.Tokens.RefreshToken == "" {
		return TokenPair{}, models.User{}, false, nil
	}
	return state.Tokens, state.User, true, nil
}

func (s *Store) Save(tokens TokenPair, user models.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(persistedState{Tokens: tokens, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// SaveTokens updates the token pair in place, keeping the stored identity.
// Used by the refresh hook, which only learns a new access token.
func (s *Store) SaveTokens(tokens TokenPair) error {
	_, user, _, err := s.Load()
	if err != nil {
		user = models.User{}
	}
	return s.Save(tokens, user)
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}
