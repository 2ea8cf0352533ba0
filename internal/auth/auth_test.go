package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/repository/memory"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)
	assert.NoError(t, h.Compare(hashed, "secret1"))
	assert.ErrorIs(t, h.Compare(hashed, "secret2"), bcrypt.ErrMismatchedHashAndPassword)

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	raw, meta, err := tm.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, int64(42), meta.UserID)
	assert.WithinDuration(t, meta.IssuedAt.Add(time.Hour), meta.ExpiresAt, time.Second)

	claims, err := tm.ParseToken(raw)
	require.NoError(t, err)
	token, err := claims.Token()
	require.NoError(t, err)
	assert.Equal(t, meta.ID, token.ID)
	assert.Equal(t, int64(42), token.UserID)

	_, other, err := tm.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEqual(t, meta.ID, other.ID)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	raw, _, err := tm.GenerateToken(7)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other-secret", time.Hour).ParseToken(raw)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ParseToken(raw)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			ID:        "abc",
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tm.ParseToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing token id", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tm.ParseToken(signed)
		assert.Error(t, err)
	})
}

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryRevocationStore()
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(time.Minute)))
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	// already expired tokens are not remembered
	require.NoError(t, store.Revoke(ctx, "jti-2", now.Add(-time.Minute)))
	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-3", now.Add(time.Minute)))
	assert.Len(t, store.revoked, 1)
}

type middlewareFixture struct {
	app     *fiber.App
	tokens  *TokenManager
	revoked *MemoryRevocationStore
	user    *domain.User
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	store := memory.New()
	user := &domain.User{
		Username: "juan", Email: "juan@example.com", PasswordHash: "x",
		FirstName: "Juan", LastName: "Cruz", SecurityQuestion: "q", SecurityAnswerHash: "a",
	}
	require.NoError(t, store.Users().Create(context.Background(), user))

	f := &middlewareFixture{
		tokens:  NewTokenManager("test-secret", time.Hour),
		revoked: NewMemoryRevocationStore(),
		user:    user,
	}
	mw := NewAuthMiddleware(f.tokens, store.Users(), f.revoked)

	f.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	f.app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": p.UserID, "username": p.User.Username})
	})
	f.app.Get("/users/:userId", mw.Handle, RequireSelf("userId"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return f
}

func (f *middlewareFixture) do(t *testing.T, path, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func TestAuthMiddleware(t *testing.T) {
	f := newMiddlewareFixture(t)
	raw, meta, err := f.tokens.GenerateToken(f.user.ID)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		status, body := f.do(t, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, apperrors.CodeUnauthorized, body["code"])
	})

	t.Run("wrong scheme", func(t *testing.T) {
		status, _ := f.do(t, "/me", "Basic "+raw)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("valid token", func(t *testing.T) {
		status, body := f.do(t, "/me", "Bearer "+raw)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "juan", body["username"])
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, _, err := f.tokens.GenerateToken(9999)
		require.NoError(t, err)
		status, _ := f.do(t, "/me", "Bearer "+ghost)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("self only", func(t *testing.T) {
		status, _ := f.do(t, "/users/"+strconv.FormatInt(f.user.ID, 10), "Bearer "+raw)
		assert.Equal(t, http.StatusOK, status)

		status, body := f.do(t, "/users/9999", "Bearer "+raw)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, apperrors.CodeForbidden, body["code"])

		status, body = f.do(t, "/users/abc", "Bearer "+raw)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.CodeValidation, body["code"])
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, f.revoked.Revoke(context.Background(), meta.ID, meta.ExpiresAt))
		status, _ := f.do(t, "/me", "Bearer "+raw)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
