package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notekeeper-be/internal/pkg/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type GoogleProvider struct {
	conf        *oauth2.Config
	breaker     *gobreaker.CircuitBreaker
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, log logger.ILogger) *GoogleProvider {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	return newGoogleProvider(conf, GoogleUserInfoURL, log)
}

func newGoogleProvider(conf *oauth2.Config, userInfoURL string, log logger.ILogger) *GoogleProvider {
	return &GoogleProvider{
		conf:        conf,
		breaker:     newBreaker("google-userinfo", log),
		userInfoURL: userInfoURL,
	}
}

// newBreaker opens after 5 consecutive failures and probes again after 30s.
func newBreaker(name string, log logger.ILogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("OAuth", "Circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	client := p.conf.Client(ctx, tok)
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return fetchProfile(ctx, client, p.userInfoURL)
	})
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	return result.(*Profile), nil
}

func fetchProfile(ctx context.Context, client *http.Client, url string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed parsing user info: %w", err)
	}
	return &profile, nil
}
