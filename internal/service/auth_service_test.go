package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/password"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func register(t *testing.T, f *fixture, name, email, pass string) *dto.AuthResponse {
	t.Helper()
	res, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: name, Email: email, Password: pass})
	require.NoError(t, err)
	return res
}

func TestRegisterNormalisesEmail(t *testing.T) {
	f := newFixture(t)

	res := register(t, f, "  Ana  ", "  Ana@X.com ", "secret1")
	assert.Equal(t, "ana@x.com", res.User.Email)
	assert.Equal(t, "Ana", res.User.Name)
	assert.False(t, res.User.IsGoogleUser)

	identity := f.verify(t, res.Token)
	assert.Equal(t, res.User.Id, identity.UserID)
	assert.Equal(t, "ana@x.com", identity.Email)
	assert.Equal(t, []string{events.UserRegistered}, f.publisher.types())

	for _, variant := range []string{"ana@x.com", "ANA@X.COM", " ana@x.com\t"} {
		_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "Other", Email: variant, Password: "secret2"})
		var cErr *apperror.ConflictError
		require.ErrorAs(t, err, &cErr, variant)
	}
}

func TestRegisterReportsAllInvalidFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "   ", Email: "not-an-email", Password: "12345"})

	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("name"))
	assert.True(t, vErr.HasField("email"))
	assert.True(t, vErr.HasField("password"))
	assert.Empty(t, f.publisher.types())
}

func TestRegisterNameBoundary(t *testing.T) {
	f := newFixture(t)

	name := make([]rune, 100)
	for i := range name {
		name[i] = 'é'
	}
	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: string(name), Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Register(context.Background(), &dto.RegisterRequest{Name: string(name) + "x", Email: "b@x.com", Password: "secret1"})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("name"))
}

func TestRegisterPasswordByteLimit(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("a", 72)})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	for _, pass := range []string{strings.Repeat("a", 73), strings.Repeat("ñ", 37)} {
		_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "Bo", Email: "bo@x.com", Password: pass})
		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr, "%d bytes", len(pass))
		assert.True(t, vErr.HasField("password"))
	}
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	f := newFixture(t)
	mail := &recordingMailer{sent: make(chan string, 1)}
	f.auth.emailService = mail

	register(t, f, "Ana", "ana@x.com", "secret1")

	select {
	case to := <-mail.sent:
		assert.Equal(t, "ana@x.com", to)
	case <-time.After(time.Second):
		t.Fatal("welcome email was not sent")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	registered := register(t, f, "Ana", "Ana@X.com", "secret1")

	res, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: " ANA@x.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.Id, res.User.Id)
	assert.Equal(t, registered.User.Id, f.verify(t, res.Token).UserID)
	assert.Equal(t, events.UserLogin, f.publisher.last().Type)

	_, wrongPassword := f.auth.Login(context.Background(), &dto.LoginRequest{Email: "ana@x.com", Password: "secret2"})
	_, unknownUser := f.auth.Login(context.Background(), &dto.LoginRequest{Email: "bob@x.com", Password: "secret1"})

	for _, err := range []error{wrongPassword, unknownUser} {
		var aErr *apperror.AuthError
		require.ErrorAs(t, err, &aErr)
		assert.Equal(t, msgInvalidCredentials, aErr.Message)
	}
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: "nope", Password: ""})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("email"))
	assert.True(t, vErr.HasField("password"))
}

func TestGoogleCreatesLinkedUser(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.AuthenticateWithGoogle(context.Background(), &dto.GoogleAuthRequest{Name: "Bea", Email: "Bea@X.com", GoogleId: "g-1"})
	require.NoError(t, err)
	assert.True(t, res.User.IsGoogleUser)
	assert.Equal(t, "bea@x.com", res.User.Email)
	assert.Equal(t, events.UserRegistered, f.publisher.last().Type)

	user, err := f.uow.NewUnitOfWork(context.Background()).UserRepository().FindOne(context.Background(), specification.ByEmail{Email: "bea@x.com"})
	require.NoError(t, err)
	require.NotNil(t, user.GoogleId)
	assert.Equal(t, "g-1", *user.GoogleId)
	assert.NotEmpty(t, user.PasswordHash)

	// The placeholder password is unknown to everyone, including the user.
	_, err = f.auth.Login(context.Background(), &dto.LoginRequest{Email: "bea@x.com", Password: "g-1"})
	var aErr *apperror.AuthError
	assert.ErrorAs(t, err, &aErr)
}

func TestGoogleUpgradesPasswordAccount(t *testing.T) {
	f := newFixture(t)
	registered := register(t, f, "Ana", "ana@x.com", "secret1")

	res, err := f.auth.AuthenticateWithGoogle(context.Background(), &dto.GoogleAuthRequest{Name: "Ana G", Email: "ANA@x.com", GoogleId: "g-ana"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.Id, res.User.Id)
	assert.True(t, res.User.IsGoogleUser)
	assert.Equal(t, events.UserGoogleLinked, f.publisher.last().Type)

	_, err = f.auth.Login(context.Background(), &dto.LoginRequest{Email: "ana@x.com", Password: "secret1"})
	var aErr *apperror.AuthError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, msgInvalidCredentials, aErr.Message)
}

func TestGoogleExistingLinkedUserIsNotMutated(t *testing.T) {
	f := newFixture(t)
	first, err := f.auth.AuthenticateWithGoogle(context.Background(), &dto.GoogleAuthRequest{Name: "Bea", Email: "bea@x.com", GoogleId: "g-1"})
	require.NoError(t, err)

	second, err := f.auth.AuthenticateWithGoogle(context.Background(), &dto.GoogleAuthRequest{Name: "Renamed", Email: "bea@x.com", GoogleId: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, first.User.Id, second.User.Id)
	assert.Equal(t, "Bea", second.User.Name)
	assert.Equal(t, events.UserLogin, f.publisher.last().Type)
}

func TestGoogleRequiresAllFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.AuthenticateWithGoogle(context.Background(), &dto.GoogleAuthRequest{Name: "", Email: "", GoogleId: ""})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)
}

func TestTokenExpiresAfterSevenDays(t *testing.T) {
	f := newFixture(t)
	res := register(t, f, "Ana", "ana@x.com", "secret1")

	f.clock.Advance(7*24*time.Hour - time.Second)
	f.verify(t, res.Token)

	f.clock.Advance(2 * time.Second)
	_, err := f.tokens.Verify(res.Token)
	var aErr *apperror.AuthError
	assert.ErrorAs(t, err, &aErr)
}

func TestNewAuthServiceDefaults(t *testing.T) {
	svc := NewAuthService(nil, password.NewBcryptHasher(bcrypt.MinCost), nil, &recordingPublisher{}, nil, logger.NewNopLogger()).(*authService)
	assert.NotNil(t, svc.now)
	assert.Nil(t, svc.emailService)
}
