// Package oauth wraps the Google and Facebook authorization-code flows.
// Both providers share one Provider type: an oauth2.Config for the
// redirect/exchange steps plus a userinfo endpoint and a payload parser
// for the profile fetch. The package knows nothing about users or
// persistence; handlers take the returned Profile and look up or create
// a local account.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ErrProfileIncomplete is returned when a provider profile is missing the
// email or name field. The flow fails cleanly instead of creating a user
// with a null email or echoing the raw provider payload back to the
// caller.
var ErrProfileIncomplete = errors.New("provider profile missing email or name")

// Profile is the subset of provider profile data the service consumes.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// Provider bundles one OAuth provider's configuration.
type Provider struct {
	Name        string // "google" or "facebook"; echoed as the type= query param on the success redirect
	conf        *oauth2.Config
	userInfoURL string
	parse       func([]byte) (Profile, error)
}

// NewGoogle builds the Google provider. The redirect URL must match the
// one registered in the Google console, i.e. BE_URL/auth/google/callback.
func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: "google",
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		parse:       parseGoogleProfile,
	}
}

// NewFacebook builds the Facebook provider with the email and
// public_profile scopes.
func NewFacebook(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: "facebook",
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"email", "public_profile"},
		},
		userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
		parse:       parseFacebookProfile,
	}
}

// AuthCodeURL returns the provider authorization URL for the redirect
// step. The state value is round-tripped through a short-lived cookie
// and checked on callback.
func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the callback's authorization code for a provider token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.conf.Exchange(ctx, code)
}

// FetchProfile retrieves the provider profile using the exchanged token.
// It fails with ErrProfileIncomplete when the provider did not return an
// email and a name, which happens when the user denies the email scope.
func (p *Provider) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	client := p.conf.Client(ctx, tok)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, err
	}
	if resp.StatusCode != 200 {
		return Profile{}, fmt.Errorf("%s userinfo returned status %d", p.Name, resp.StatusCode)
	}

	profile, err := p.parse(body)
	if err != nil {
		return Profile{}, err
	}
	if profile.Email == "" || profile.Name == "" {
		return Profile{}, ErrProfileIncomplete
	}
	return profile, nil
}

func parseGoogleProfile(body []byte) (Profile, error) {
	var raw struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Profile{}, err
	}
	return Profile{Email: raw.Email, Name: raw.Name, Picture: raw.Picture}, nil
}

func parseFacebookProfile(body []byte) (Profile, error) {
	// Facebook nests the avatar under picture.data.url.
	var raw struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Profile{}, err
	}
	return Profile{Email: raw.Email, Name: raw.Name, Picture: raw.Picture.Data.URL}, nil
}
