package ambiclimate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore is the interface for persisting OAuth tokens across restarts.
type TokenStore interface {
	SaveToken(ctx context.Context, token *oauth2.Token) error
	LoadToken(ctx context.Context) (*oauth2.Token, error)
}

// FileTokenStore stores OAuth tokens in a JSON file.
type FileTokenStore struct {
	filepath string
	mu       sync.RWMutex
}

// NewFileTokenStore creates a new FileTokenStore.
func NewFileTokenStore(filepath string) *FileTokenStore {
	return &FileTokenStore{
		filepath: filepath,
	}
}

// SaveToken saves the token to the file.
func (f *FileTokenStore) SaveToken(ctx context.Context, token *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if token == nil {
		return fmt.Errorf("ambiclimate: token cannot be nil")
	}

	dir := filepath.Dir(f.filepath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Write to a temporary file first, then rename for atomicity.
	tmpFile := f.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := os.Rename(tmpFile, f.filepath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to save token file: %w", err)
	}

	return nil
}

// LoadToken loads the token from the file.
func (f *FileTokenStore) LoadToken(ctx context.Context) (*oauth2.Token, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("token file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// NewPersistingTokenSource wraps src so that every token it produces is
// written through to store when it changes. Combine with WithTokenSource so
// refreshed tokens survive restarts.
func NewPersistingTokenSource(ctx context.Context, store TokenStore, src oauth2.TokenSource) oauth2.TokenSource {
	return &persistingTokenSource{ctx: ctx, store: store, src: src}
}

type persistingTokenSource struct {
	ctx   context.Context
	store TokenStore
	src   oauth2.TokenSource

	mu   sync.Mutex
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != p.last {
		if err := p.store.SaveToken(p.ctx, token); err != nil {
			return nil, fmt.Errorf("failed to persist token: %w", err)
		}
		p.last = token.AccessToken
	}

	return token, nil
}
