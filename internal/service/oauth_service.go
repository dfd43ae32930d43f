package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/pkg/oauth"
)

const (
	oauthStateTTL = 10 * time.Minute
	maxNameRunes  = 100 // matches the name rule on GoogleAuthRequest
)

type IOAuthService interface {
	GetLoginURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error)
}

type oauthService struct {
	provider    oauth.Provider
	states      contract.OAuthStateRepository
	authService IAuthService
	logger      logger.ILogger
}

func NewOAuthService(provider oauth.Provider, states contract.OAuthStateRepository, authService IAuthService, log logger.ILogger) IOAuthService {
	return &oauthService{
		provider:    provider,
		states:      states,
		authService: authService,
		logger:      log,
	}
}

func (s *oauthService) GetLoginURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", apperror.Internal("generate oauth state", err)
	}
	if err := s.states.Save(ctx, state, oauthStateTTL); err != nil {
		return "", apperror.Internal("save oauth state", err)
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error) {
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, apperror.Internal("consume oauth state", err)
	}
	if !ok {
		return nil, apperror.NewAuth("invalid or expired oauth state", nil)
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuthService", "Google exchange failed", map[string]interface{}{"error": err})
		return nil, apperror.NewAuth("google authentication failed", err)
	}
	if !profile.VerifiedEmail {
		return nil, apperror.NewAuth("google email not verified", nil)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.SplitN(profile.Email, "@", 2)[0]
	}
	if runes := []rune(name); len(runes) > maxNameRunes {
		name = strings.TrimSpace(string(runes[:maxNameRunes]))
	}

	return s.authService.AuthenticateWithGoogle(ctx, &dto.GoogleAuthRequest{
		Name:     name,
		Email:    profile.Email,
		GoogleId: profile.ID,
	})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
