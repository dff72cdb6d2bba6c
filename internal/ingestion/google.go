// Package ingestion imports CVs from a recruiting mailbox and a shared
// Drive folder into the intake pipeline.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNotConfigured is returned when the OAuth credentials or token are
// missing.
var ErrNotConfigured = errors.New("google import is not configured")

// ImportSummary counts what one import run did.
type ImportSummary struct {
	Found    int `json:"found"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// NewGoogleClient builds an authorized HTTP client from an OAuth client
// credentials file and a previously stored token. There is no interactive
// consent flow.
func NewGoogleClient(ctx context.Context, credentialsFile, tokenFile string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read credentials file: %v", ErrNotConfigured, err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read token file: %v", ErrNotConfigured, err)
	}

	return cfg.Client(ctx, tok), nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}
