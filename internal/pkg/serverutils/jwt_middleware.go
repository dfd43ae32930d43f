package serverutils

import (
	"strings"

	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

type TokenVerifier interface {
	Verify(raw string) (*token.Identity, error)
}

type JwtOption func(*jwtOptions)

type jwtOptions struct {
	allowQueryToken bool
}

// AllowQueryToken also accepts ?token=. Browsers cannot set headers on a
// websocket upgrade, so the sync endpoint needs it.
func AllowQueryToken() JwtOption {
	return func(o *jwtOptions) { o.allowQueryToken = true }
}

func JwtMiddleware(verifier TokenVerifier, opts ...JwtOption) fiber.Handler {
	var o jwtOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx *fiber.Ctx) error {
		raw, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok && o.allowQueryToken {
			raw = ctx.Query("token")
			ok = raw != ""
		}
		if !ok {
			return apperror.NewAuth("no token", nil)
		}

		identity, err := verifier.Verify(raw)
		if err != nil {
			return err
		}

		ctx.Locals(LocalUserID, identity.UserID)
		ctx.Locals(LocalEmail, identity.Email)
		return ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}

// UserID returns the identity stored by JwtMiddleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(LocalUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperror.NewAuth("no token", nil)
	}
	return id, nil
}
