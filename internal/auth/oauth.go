package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	peopleapi "google.golang.org/api/people/v1"
)

// LoadConfig reads an OAuth client secret file downloaded from the Google
// Cloud console and requests read/write access to the user's contacts
func LoadConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, peopleapi.ContactsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return cfg, nil
}

// Authorizer produces HTTP clients authorized as the user, running the
// consent flow when no token is stored
type Authorizer struct {
	Config *oauth2.Config
	Store  *FileTokenStore
	In     io.Reader
	Out    io.Writer
	Logger *zap.Logger
}

// Token returns the stored token, or runs the consent flow and stores the
// resulting token when there is none
func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.Store.Load()
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrNoToken) {
		return nil, err
	}

	a.logger().Info("no stored token, starting authorization", zap.String("token_path", a.Store.Path()))
	return a.authorize(ctx)
}

// Client returns an HTTP client whose token is refreshed automatically and
// written back to the store whenever it changes
func (a *Authorizer) Client(ctx context.Context) (*http.Client, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}

	src := &persistingTokenSource{
		base:   a.Config.TokenSource(ctx, tok),
		store:  a.Store,
		last:   tok,
		logger: a.logger(),
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

func (a *Authorizer) authorize(ctx context.Context) (*oauth2.Token, error) {
	url := a.Config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(a.Out, "Open the following URL in the browser and enter the resulting code after authorization:\n%s\n", url)

	code, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && code != "") {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("empty authorization code")
	}

	tok, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := a.Store.Save(tok); err != nil {
		return nil, err
	}
	a.logger().Info("stored new token", zap.String("token_path", a.Store.Path()))
	return tok, nil
}

func (a *Authorizer) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// persistingTokenSource saves every new token obtained from base
type persistingTokenSource struct {
	base   oauth2.TokenSource
	store  *FileTokenStore
	logger *zap.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := s.store.Save(tok); err != nil {
			// the token is still usable for this run
			s.logger.Warn("saving refreshed token failed", zap.Error(err))
		}
		s.last = tok
	}
	return tok, nil
}
