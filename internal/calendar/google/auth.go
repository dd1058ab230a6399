package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	calsrc "github.com/sandeepkv93/questd/internal/calendar"
)

const (
	CredentialsFile = "credentials.json"
	TokenFile       = "token.json"

	DefaultAuthPort = "6789"
	authTimeout     = 5 * time.Minute
)

// Scopes are read-only: events are imported, never written back.
var Scopes = []string{calendar.CalendarReadonlyScope}

// Auth locates the OAuth client secrets and the cached user token.
type Auth struct {
	Dir    string
	Port   string
	Logger *slog.Logger
}

func (a Auth) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a Auth) port() string {
	if a.Port != "" {
		return a.Port
	}
	return DefaultAuthPort
}

func (a Auth) tokenPath() string {
	return filepath.Join(a.Dir, TokenFile)
}

// Config builds the OAuth client config, pinning localhost redirects to the
// listener port.
func (a Auth) Config() (*oauth2.Config, error) {
	path := filepath.Join(a.Dir, CredentialsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing %s", calsrc.ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("read client secrets %s: %w", path, err)
	}
	cfg, err := googleoauth.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	cfg.RedirectURL = a.redirectURL(cfg.RedirectURL)
	return cfg, nil
}

func (a Auth) redirectURL(configured string) string {
	fallback := fmt.Sprintf("http://localhost:%s/oauth2callback", a.port())
	if configured == "" || configured == "urn:ietf:wg:oauth:2.0:oob" {
		return fallback
	}
	u, err := url.Parse(configured)
	if err != nil {
		a.logger().Warn("unparsable redirect url", "url", configured, "error", err)
		return configured
	}
	if u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		a.logger().Warn("redirect url is not a localhost callback", "url", configured)
		return configured
	}
	u.Host = net.JoinHostPort(u.Hostname(), a.port())
	return u.String()
}

// Client returns an HTTP client authorized with the cached token. Without a
// token the user has not granted access yet and ErrPermissionDenied is
// returned; run Authorize first.
func (a Auth) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(a.tokenPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token at %s", calsrc.ErrPermissionDenied, a.tokenPath())
		}
		return nil, err
	}
	ts := &savingTokenSource{
		base:   cfg.TokenSource(ctx, tok),
		path:   a.tokenPath(),
		last:   tok,
		logger: a.logger(),
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// Service builds a Calendar client from the cached token.
func (a Auth) Service(ctx context.Context) (*calendar.Service, error) {
	client, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}

// Authorize runs the browser consent flow on a local listener and caches the
// token. prompt receives the URL the user must open.
func (a Auth) Authorize(ctx context.Context, prompt func(authURL string)) error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", a.port()))
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", a.port(), err)
	}

	state := newOAuthState()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				return
			}
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect"):
				default:
				}
				return
			}
			fmt.Fprintln(w, "Calendar access granted. You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("callback server: %w", err):
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	prompt(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")))

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()
	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("exchange authorization code: %w", err)
		}
		return saveToken(a.tokenPath(), tok)
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("authorization aborted: %w", ctx.Err())
	}
}

// savingTokenSource persists refreshed tokens.
type savingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := saveToken(s.path, tok); err != nil {
			s.logger.Warn("persist refreshed token", "error", err)
		}
		s.last = tok
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}

// newOAuthState returns an unguessable value for the authorization round trip.
func newOAuthState() string {
	return "questd-" + uuid.NewString()
}
