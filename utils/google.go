package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// AnalyticsReadScope is the only Google scope we ask for.
const AnalyticsReadScope = "https://www.googleapis.com/auth/analytics.readonly"

// GoogleOAuthConfig builds the OAuth code-flow config from the
// environment. Offline access is requested so we receive a refresh token.
func GoogleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes:       []string{AnalyticsReadScope},
		Endpoint:     google.Endpoint,
	}
}

// MarshalToken serializes an oauth2 token for the users.google_token column.
func MarshalToken(tok *oauth2.Token) ([]byte, error) {
	data, err := json.Marshal(tok)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth token: %w", err)
	}
	return data, nil
}

// UnmarshalToken deserializes a stored oauth2 token.
func UnmarshalToken(data []byte) (*oauth2.Token, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no google token stored")
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth token: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("stored google token is empty")
	}
	return tok, nil
}
