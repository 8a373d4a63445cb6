package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/repository"
)

var userRowColumns = []string{
	"id", "email", "email_verified", "name", "image", "failed_login_attempts", "locked_until",
	"created_at", "updated_at", "deleted_at",
}

func newPasswordService(t *testing.T, policy *PasswordPolicy) (*PasswordService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPasswordService(db, repository.NewUsersRepository(db), repository.NewCredentialsRepository(db), policy), mock
}

func userRow(id uuid.UUID, email string, failed int, lockedUntil any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).
		AddRow(id.String(), email, false, nil, nil, failed, lockedUntil, now, now, nil)
}

func TestPasswordService_Register(t *testing.T) {
	svc, mock := newPasswordService(t, &PasswordPolicy{MinLength: 8})

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("owner@goldenpadthai.co").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_passwords").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := svc.Register(context.Background(), " Owner@GoldenPadThai.co ", "pad-thai-2024", "  Somchai ")
	require.NoError(t, err)
	assert.Equal(t, "owner@goldenpadthai.co", user.Email)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Somchai", *user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordService_Register_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		exists   bool
		wantErr  error
	}{
		{name: "invalid email", email: "not-an-email", password: "long-enough", wantErr: domain.ErrInvalidEmail},
		{name: "weak password", email: "a@x.com", password: "short", wantErr: domain.ErrWeakPassword},
		{name: "duplicate", email: "a@x.com", password: "long-enough", exists: true, wantErr: domain.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newPasswordService(t, &PasswordPolicy{MinLength: 8})
			if tt.exists {
				mock.ExpectQuery("SELECT EXISTS").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			}

			_, err := svc.Register(context.Background(), tt.email, tt.password, "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPasswordService_Authenticate(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("success resets failures", func(t *testing.T) {
		svc, mock := newPasswordService(t, nil)
		mock.ExpectQuery("FROM users WHERE email").
			WithArgs("a@x.com").
			WillReturnRows(userRow(userID, "a@x.com", 2, nil))
		mock.ExpectQuery("FROM user_passwords").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "password_hash", "password_updated_at"}).
				AddRow(userID.String(), hash, time.Now()))
		mock.ExpectExec("SET failed_login_attempts = 0").
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := svc.Authenticate(context.Background(), "A@x.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, userID, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		svc, mock := newPasswordService(t, nil)
		mock.ExpectQuery("FROM users WHERE email").
			WillReturnRows(userRow(userID, "a@x.com", 0, nil))
		mock.ExpectQuery("FROM user_passwords").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "password_hash", "password_updated_at"}).
				AddRow(userID.String(), hash, time.Now()))
		mock.ExpectExec("failed_login_attempts \\+ 1").
			WithArgs(userID, maxFailedAttempts, lockoutDuration.Seconds()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := svc.Authenticate(context.Background(), "a@x.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock := newPasswordService(t, nil)
		mock.ExpectQuery("FROM users WHERE email").
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := svc.Authenticate(context.Background(), "nobody@x.com", "whatever")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("locked account", func(t *testing.T) {
		svc, mock := newPasswordService(t, nil)
		until := time.Now().Add(10 * time.Minute)
		mock.ExpectQuery("FROM users WHERE email").
			WillReturnRows(userRow(userID, "a@x.com", 5, until))

		_, err := svc.Authenticate(context.Background(), "a@x.com", "correct-horse")
		assert.ErrorIs(t, err, domain.ErrAccountLocked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPasswordHashing_CaseSensitive(t *testing.T) {
	hash, err := HashPassword("TestPassword123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "exact match", password: "TestPassword123", want: true},
		{name: "lowercase", password: "testpassword123", want: false},
		{name: "uppercase", password: "TESTPASSWORD123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, hash))
		})
	}
}

func TestPasswordHashing_EdgeCases(t *testing.T) {
	for _, password := range []string{"a", "", "p@ssw0rd!#$%^&*()", "รหัสผ่าน123"} {
		hash, err := HashPassword(password)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(password, hash), "password %q", password)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AAAA$AAAA", "$argon2id$v=19$m=x$AAAA$AAAA"} {
		assert.False(t, VerifyPassword("anything", encoded), "hash %q", encoded)
	}
}

func TestHashToken(t *testing.T) {
	token, err := GenerateToken(32)
	require.NoError(t, err)
	other, err := GenerateToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, token, other)
	assert.Len(t, HashToken(token), 64)
	assert.Equal(t, HashToken(token), HashToken(token))
	assert.NotEqual(t, HashToken(token), HashToken(other))
}
