package store

import (
	"context"
	"log"
	"sync"

	"golang.org/x/oauth2"

	"insightboard/api/utils"
)

// savingTokenSource wraps an oauth2.TokenSource and writes refreshed
// tokens back to the users table, so a refresh performed during one GA4
// call survives the process.
type savingTokenSource struct {
	base   oauth2.TokenSource
	users  *UserStore
	userID int

	mu   sync.Mutex
	last string // last persisted access token
}

// NewSavingTokenSource builds a token source for a user from their stored
// token. Persist failures are logged, not fatal: the in-memory token is
// still valid for the current call.
func NewSavingTokenSource(ctx context.Context, conf *oauth2.Config, users *UserStore, userID int, tok *oauth2.Token) oauth2.TokenSource {
	return &savingTokenSource{
		base:   conf.TokenSource(ctx, tok),
		users:  users,
		userID: userID,
		last:   tok.AccessToken,
	}
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}

	data, err := utils.MarshalToken(tok)
	if err != nil {
		log.Printf("Failed to serialize refreshed google token for user %d: %v", s.userID, err)
		return tok, nil
	}
	if err := s.users.UpdateGoogleToken(context.Background(), s.userID, data); err != nil {
		log.Printf("Failed to persist refreshed google token for user %d: %v", s.userID, err)
		return tok, nil
	}
	s.last = tok.AccessToken
	return tok, nil
}
