package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/B0bbyBrown/ExpendiForge/internal/config"
	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/model"
	"github.com/B0bbyBrown/ExpendiForge/internal/repository"
	"github.com/B0bbyBrown/ExpendiForge/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUserRepo struct {
	users []model.User
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func newAuthService() (service.AuthService, *memUserRepo) {
	repo := &memUserRepo{}
	return service.NewAuthService(repo, testConfig()), repo
}

func registerReq(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	}
}

func TestRegisterDefaultsToShopper(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)
	assert.Equal(t, "shopper", resp.Role)
}

func TestRegisterAllowsAdminRole(t *testing.T) {
	svc, _ := newAuthService()

	req := registerReq("boss")
	req.Role = "admin"
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
}

func TestRegisterNeverGrantsDevRole(t *testing.T) {
	svc, _ := newAuthService()

	for _, role := range []string{"dev", "superuser", "root"} {
		req := registerReq("u-" + role)
		req.Role = role
		resp, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "shopper", resp.Role)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newAuthService()

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)
	require.Len(t, repo.users, 1)
	assert.NotEqual(t, "secret123", repo.users[0].PasswordHash)
	assert.True(t, strings.HasPrefix(repo.users[0].PasswordHash, "$2"))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	dup := registerReq("alice")
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	dup := registerReq("bob")
	dup.Email = "ALICE@example.com" // lookup is case-insensitive
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestLoginReturnsTokenPair(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "alice", resp.User.Username)

	// Access token carries the identity claims.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "shopper", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc, _ := newAuthService()

	// Unknown user and wrong password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "alice", refreshed.User.Username)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Refresh(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestRefreshRejectsTokenSignedWithOtherSecret(t *testing.T) {
	svc, repo := newAuthService()
	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": repo.users[0].ID.String(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), signed)
	require.Error(t, err)
}
