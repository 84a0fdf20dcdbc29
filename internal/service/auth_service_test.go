package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.Equal(t, "A", reg.User.FullName)

	login, err := svc.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	users := memstore.NewUsers()
	svc := NewAuthService(testConfig(), users)

	reg, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	u, err := users.GetByID(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw123456")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	_, err = svc.Register(ctx, " A@X.com ", "other-pass", "B")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "a@x.com", "nope")
	_, unknown := svc.Login(ctx, "ghost@x.com", "pw123456")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Email: "a@x.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour}, memstore.NewUsers())
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testConfig()
	svc := NewAuthService(cfg, memstore.NewUsers())

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: uuid.New(),
		Email:  "a@x.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.New(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenExpiresAfterConfiguredWindow(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Email: "a@x.com"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestProfile(t *testing.T) {
	svc := NewAuthService(testConfig(), memstore.NewUsers())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	p, err := svc.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", p.FullName)

	_, err = svc.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
