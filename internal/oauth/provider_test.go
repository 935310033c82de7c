package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func userInfoServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer provider-token" {
			t.Errorf("userinfo Authorization = %q, want bearer provider-token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetch(t *testing.T, p *Provider, body string) (Profile, error) {
	t.Helper()
	srv := userInfoServer(t, body)
	p.userInfoURL = srv.URL
	return p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "provider-token"})
}

func TestFetchProfile_Google(t *testing.T) {
	p := NewGoogle("id", "secret", "http://localhost:4000/auth/google/callback")
	profile, err := fetch(t, p, `{"email":"alice@x.com","name":"Alice","picture":"https://img/a.png"}`)
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}
	if profile.Email != "alice@x.com" || profile.Name != "Alice" || profile.Picture != "https://img/a.png" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestFetchProfile_FacebookNestedPicture(t *testing.T) {
	p := NewFacebook("id", "secret", "http://localhost:4000/auth/facebook/callback")
	profile, err := fetch(t, p, `{"id":"77","name":"Bob","email":"bob@x.com","picture":{"data":{"url":"https://img/b.png"}}}`)
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}
	if profile.Email != "bob@x.com" || profile.Name != "Bob" || profile.Picture != "https://img/b.png" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestFetchProfile_MissingEmail(t *testing.T) {
	p := NewGoogle("id", "secret", "http://localhost:4000/auth/google/callback")
	_, err := fetch(t, p, `{"name":"Alice","picture":"https://img/a.png"}`)
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("err = %v, want ErrProfileIncomplete", err)
	}
}

func TestFetchProfile_MissingName(t *testing.T) {
	p := NewFacebook("id", "secret", "http://localhost:4000/auth/facebook/callback")
	_, err := fetch(t, p, `{"id":"77","email":"bob@x.com"}`)
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("err = %v, want ErrProfileIncomplete", err)
	}
}

func TestFetchProfile_ProviderError(t *testing.T) {
	p := NewGoogle("id", "secret", "http://localhost:4000/auth/google/callback")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	p.userInfoURL = srv.URL

	if _, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "bad"}); err == nil {
		t.Fatal("expected error for non-200 userinfo response")
	}
}

func TestAuthCodeURL_CarriesState(t *testing.T) {
	p := NewGoogle("client-1", "secret", "http://localhost:4000/auth/google/callback")
	u := p.AuthCodeURL("state-xyz")
	for _, want := range []string{"state=state-xyz", "client_id=client-1", "accounts.google.com"} {
		if !strings.Contains(u, want) {
			t.Fatalf("AuthCodeURL %q missing %q", u, want)
		}
	}
}
