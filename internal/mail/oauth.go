package mail

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// Scopes requested from the Gmail API: send, read and modify (the unread
// flag is cleared after each processed reply).
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
}

// clientSecrets mirrors the "installed" section of a Google OAuth client
// credentials file.
type clientSecrets struct {
	Installed struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		AuthURI      string   `json:"auth_uri"`
		TokenURI     string   `json:"token_uri"`
		RedirectURIs []string `json:"redirect_uris"`
	} `json:"installed"`
}

// LoadOAuthConfig reads a Google OAuth client credentials file.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, err
	}
	if secrets.Installed.ClientID == "" {
		return nil, fmt.Errorf("no installed-app client in %s", path)
	}

	redirect := "urn:ietf:wg:oauth:2.0:oob"
	if len(secrets.Installed.RedirectURIs) > 0 {
		redirect = secrets.Installed.RedirectURIs[0]
	}

	return &oauth2.Config{
		ClientID:     secrets.Installed.ClientID,
		ClientSecret: secrets.Installed.ClientSecret,
		RedirectURL:  redirect,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  secrets.Installed.AuthURI,
			TokenURL: secrets.Installed.TokenURI,
		},
	}, nil
}

// ReadToken loads a stored OAuth token from disk.
func ReadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// SaveToken writes an OAuth token to disk with restricted permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
