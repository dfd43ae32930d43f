package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/pkg/oauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	profile *oauth.Profile
	err     error
	codes   []string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	p.codes = append(p.codes, code)
	return p.profile, p.err
}

func newOAuthFixture(t *testing.T, provider *fakeProvider) (*fixture, IOAuthService) {
	f := newFixture(t)
	svc := NewOAuthService(provider, memory.NewOAuthStateRepository(), f.auth, logger.NewNopLogger())
	return f, svc
}

func stateFrom(t *testing.T, loginURL string) string {
	t.Helper()
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthCallbackSignsIn(t *testing.T) {
	provider := &fakeProvider{profile: &oauth.Profile{ID: "g-7", Email: "Cy@X.com", VerifiedEmail: true, Name: "Cy"}}
	f, svc := newOAuthFixture(t, provider)
	ctx := context.Background()

	loginURL, err := svc.GetLoginURL(ctx)
	require.NoError(t, err)
	state := stateFrom(t, loginURL)

	res, err := svc.HandleCallback(ctx, state, "code-1")
	require.NoError(t, err)
	assert.Equal(t, "cy@x.com", res.User.Email)
	assert.True(t, res.User.IsGoogleUser)
	assert.Equal(t, res.User.Id, f.verify(t, res.Token).UserID)
	assert.Equal(t, []string{"code-1"}, provider.codes)

	_, err = svc.HandleCallback(ctx, state, "code-1")
	var aErr *apperror.AuthError
	require.ErrorAs(t, err, &aErr, "state is single use")
	assert.Len(t, provider.codes, 1)
}

func TestOAuthCallbackRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown state", func(t *testing.T) {
		provider := &fakeProvider{}
		_, svc := newOAuthFixture(t, provider)

		_, err := svc.HandleCallback(ctx, "forged", "code")
		var aErr *apperror.AuthError
		require.ErrorAs(t, err, &aErr)
		assert.Empty(t, provider.codes)
	})

	t.Run("exchange failure", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("invalid_grant")}
		_, svc := newOAuthFixture(t, provider)

		loginURL, err := svc.GetLoginURL(ctx)
		require.NoError(t, err)
		_, err = svc.HandleCallback(ctx, stateFrom(t, loginURL), "bad")
		var aErr *apperror.AuthError
		require.ErrorAs(t, err, &aErr)
		assert.Equal(t, "google authentication failed", aErr.Message)
	})

	t.Run("unverified email", func(t *testing.T) {
		provider := &fakeProvider{profile: &oauth.Profile{ID: "g-8", Email: "dee@x.com", Name: "Dee"}}
		_, svc := newOAuthFixture(t, provider)

		loginURL, err := svc.GetLoginURL(ctx)
		require.NoError(t, err)
		_, err = svc.HandleCallback(ctx, stateFrom(t, loginURL), "code")
		var aErr *apperror.AuthError
		require.ErrorAs(t, err, &aErr)
	})
}

func TestOAuthCallbackFallsBackToEmailName(t *testing.T) {
	provider := &fakeProvider{profile: &oauth.Profile{ID: "g-9", Email: "eve@x.com", VerifiedEmail: true}}
	_, svc := newOAuthFixture(t, provider)
	ctx := context.Background()

	loginURL, err := svc.GetLoginURL(ctx)
	require.NoError(t, err)
	res, err := svc.HandleCallback(ctx, stateFrom(t, loginURL), "code")
	require.NoError(t, err)
	assert.Equal(t, "eve", res.User.Name)
}

func TestOAuthCallbackTruncatesLongName(t *testing.T) {
	long := strings.Repeat("é", 150)
	provider := &fakeProvider{profile: &oauth.Profile{ID: "g-10", Email: "fay@x.com", VerifiedEmail: true, Name: long}}
	_, svc := newOAuthFixture(t, provider)
	ctx := context.Background()

	loginURL, err := svc.GetLoginURL(ctx)
	require.NoError(t, err)
	res, err := svc.HandleCallback(ctx, stateFrom(t, loginURL), "code")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), res.User.Name)
}
