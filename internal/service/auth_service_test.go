package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftops/roster-api/internal/models"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

type mockAuthRepo struct {
	person *models.Person
	err    error
}

func (m *mockAuthRepo) FindByEmail(_ context.Context, email string) (*models.Person, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.person == nil || !strings.EqualFold(m.person.Email, email) {
		return nil, sql.ErrNoRows
	}
	return m.person, nil
}

func authFixture(t *testing.T, person *models.Person) *AuthService {
	t.Helper()
	return NewAuthService(&mockAuthRepo{person: person}, nil, zap.NewNop(), AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "roster-api",
	})
}

func hashedPerson(t *testing.T, password string) *models.Person {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	p := eligiblePerson("p-1", "Ada")
	p.Role = models.RoleAdmin
	p.PasswordHash = string(hash)
	return &p
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc := authFixture(t, hashedPerson(t, "correct-horse"))

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "p-1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.PersonID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "roster-api", claims.Issuer)
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	svc := authFixture(t, hashedPerson(t, "correct-horse"))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "p-1@example.com",
		Password: "battery-staple",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc := authFixture(t, hashedPerson(t, "correct-horse"))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsInactiveAccount(t *testing.T) {
	person := hashedPerson(t, "correct-horse")
	person.Active = false
	svc := authFixture(t, person)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "p-1@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := authFixture(t, nil)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthService(&mockAuthRepo{person: hashedPerson(t, "correct-horse")}, nil, zap.NewNop(), AuthConfig{
		Secret:     "other-secret",
		Expiration: time.Hour,
		Issuer:     "roster-api",
	})
	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "p-1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	svc := authFixture(t, nil)
	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
