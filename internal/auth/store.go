package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// ErrNoToken is returned when the store holds no token yet
var ErrNoToken = errors.New("no stored token")

// storedToken is the on-disk form of an OAuth token
type storedToken struct {
	AccessToken  string    `yaml:"access_token"`
	TokenType    string    `yaml:"token_type,omitempty"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// FileTokenStore keeps the user's OAuth token in a YAML file
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore creates a store backed by path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the token file location
func (s *FileTokenStore) Path() string {
	return s.path
}

// Load reads the token from disk
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var st storedToken
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	if st.AccessToken == "" && st.RefreshToken == "" {
		return nil, ErrNoToken
	}

	return &oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
		Expiry:       st.Expiry,
	}, nil
}

// Save writes the token to disk, readable by the owner only
func (s *FileTokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(storedToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}
