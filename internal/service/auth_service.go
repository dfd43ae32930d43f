package service

import (
	"context"
	"errors"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/pkg/password"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/pkg/validation"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

const (
	msgUserExists         = "user already exists"
	msgInvalidCredentials = "invalid credentials"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	AuthenticateWithGoogle(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	hasher       password.Hasher
	tokens       *token.Manager
	publisher    IPublisherService
	emailService mailer.IEmailService // nil when SMTP is not configured
	logger       logger.ILogger
	now          func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	hasher password.Hasher,
	tokens *token.Manager,
	publisher IPublisherService,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		hasher:       hasher,
		tokens:       tokens,
		publisher:    publisher,
		emailService: emailService,
		logger:       log,
		now:          time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}
	if existing != nil {
		return nil, apperror.NewConflict(msgUserExists)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	now := s.now().UTC()
	user := &entity.User{
		Id:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index still decides when two registrations race.
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.NewConflict(msgUserExists)
		}
		return nil, apperror.Internal("create user", err)
	}

	res, err := s.authResponse("User registered successfully", user)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, newEvent(events.UserRegistered, user.Id, user.Id, now, map[string]interface{}{
		"email":    user.Email,
		"provider": "password",
	}))
	s.sendWelcome(user)

	return res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}

	// Unknown email, Google-linked account and wrong password are indistinguishable.
	if user == nil || !user.CanUsePassword() || !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, apperror.NewAuth(msgInvalidCredentials, nil)
	}

	res, err := s.authResponse("Login successful", user)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, newEvent(events.UserLogin, user.Id, user.Id, s.now().UTC(), map[string]interface{}{
		"provider": "password",
	}))
	return res, nil
}

// AuthenticateWithGoogle trusts the caller's assertion that Google verified
// this email. An existing password account with the same email is linked.
func (s *authService) AuthenticateWithGoogle(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.AuthResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.UserRepository()
	user, err := repo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}

	now := s.now().UTC()
	googleID := req.GoogleId
	eventType := events.UserLogin

	switch {
	case user == nil:
		placeholder, err := password.Unusable()
		if err != nil {
			return nil, apperror.Internal("generate placeholder password", err)
		}
		hash, err := s.hasher.Hash(placeholder)
		if err != nil {
			return nil, apperror.Internal("hash password", err)
		}

		user = &entity.User{
			Id:           uuid.New(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			IsGoogleUser: true,
			GoogleId:     &googleID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, contract.ErrDuplicateKey) {
				return nil, apperror.NewConflict(msgUserExists)
			}
			return nil, apperror.Internal("create user", err)
		}
		eventType = events.UserRegistered

	case !user.IsGoogleUser:
		s.logger.Warn("AuthService", "Linking existing password account to Google by email match", map[string]interface{}{
			"user_id": user.Id,
			"email":   user.Email,
		})
		user.IsGoogleUser = true
		user.GoogleId = &googleID
		user.UpdatedAt = now
		if err := repo.Update(ctx, user); err != nil {
			if errors.Is(err, contract.ErrDuplicateKey) {
				return nil, apperror.NewConflict("google account already linked to another user")
			}
			return nil, apperror.Internal("link google account", err)
		}
		eventType = events.UserGoogleLinked
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal("commit", err)
	}

	res, err := s.authResponse("Google authentication successful", user)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, newEvent(eventType, user.Id, user.Id, now, map[string]interface{}{
		"provider": "google",
	}))
	if eventType == events.UserRegistered {
		s.sendWelcome(user)
	}

	return res, nil
}

func (s *authService) authResponse(message string, user *entity.User) (*dto.AuthResponse, error) {
	signed, err := s.tokens.Issue(user.Id, user.Email)
	if err != nil {
		return nil, apperror.Internal("issue token", err)
	}
	return &dto.AuthResponse{
		Message: message,
		Token:   signed,
		User: dto.UserResponse{
			Id:           user.Id,
			Name:         user.Name,
			Email:        user.Email,
			IsGoogleUser: user.IsGoogleUser,
		},
	}, nil
}

func (s *authService) sendWelcome(user *entity.User) {
	if s.emailService == nil {
		return
	}
	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.Name); err != nil {
			s.logger.Warn("AuthService", "Failed to send welcome email", map[string]interface{}{
				"user_id": user.Id,
				"error":   err,
			})
		}
	}()
}
