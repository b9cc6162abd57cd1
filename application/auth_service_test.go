package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"importsvc/domain/contracts"
	"importsvc/domain/users"
	"importsvc/infrastructure/config"
	"importsvc/logging"
	"importsvc/test/mocks"
)

func newAuthFixture() (AuthService, *mocks.MockUserRepository) {
	userRepo := &mocks.MockUserRepository{}
	cfg := &config.AuthConfig{SecretKey: "test-secret", TokenTTL: time.Hour}
	logger := logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "stderr"})
	return NewAuthService(userRepo, cfg, logger), userRepo
}

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	// Low cost keeps the test fast; verification is cost-agnostic.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthService_RegisterIssuesToken(t *testing.T) {
	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, "alice@example.com", "alice", mock.AnythingOfType("string")).
		Return(&users.User{ID: 1, Email: "alice@example.com", Username: "alice", IsActive: true}, nil)

	user, token, err := svc.Register(ctx, "alice@example.com", "alice", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, token)
	// Compact JWS form.
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	t.Run("username taken", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

		_, _, err := svc.Register(context.Background(), "alice@example.com", "alice", "s3cretpass")
		assert.True(t, errors.Is(err, contracts.ErrUsernameTaken))
	})

	t.Run("email taken", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
		userRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

		_, _, err := svc.Register(context.Background(), "alice@example.com", "alice", "s3cretpass")
		assert.True(t, errors.Is(err, contracts.ErrEmailTaken))
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	stored := &users.User{
		ID:             2,
		Username:       "bob",
		HashedPassword: hashForTest(t, "correct-horse"),
		IsActive:       true,
	}
	userRepo.On("GetByUsername", mock.Anything, "bob").Return(stored, nil)

	user, token, err := svc.Login(ctx, "bob", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_LoginFailures(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

		_, _, err := svc.Login(context.Background(), "ghost", "whatever")
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByUsername", mock.Anything, "bob").Return(&users.User{
			ID:             2,
			Username:       "bob",
			HashedPassword: hashForTest(t, "correct-horse"),
			IsActive:       true,
		}, nil)

		_, _, err := svc.Login(context.Background(), "bob", "wrong")
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByUsername", mock.Anything, "carol").Return(&users.User{
			ID:             3,
			Username:       "carol",
			HashedPassword: hashForTest(t, "correct-horse"),
			IsActive:       false,
		}, nil)

		_, _, err := svc.Login(context.Background(), "carol", "correct-horse")
		assert.True(t, errors.Is(err, contracts.ErrInactiveUser))
	})
}

func TestAuthService_AuthenticateRoundTrip(t *testing.T) {
	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	stored := &users.User{
		ID:             4,
		Username:       "dave",
		HashedPassword: hashForTest(t, "s3cretpass"),
		IsActive:       true,
	}
	userRepo.On("GetByUsername", mock.Anything, "dave").Return(stored, nil)
	userRepo.On("GetByID", mock.Anything, int64(4)).Return(stored, nil)

	_, token, err := svc.Login(ctx, "dave", "s3cretpass")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	assert.Equal(t, "dave", user.Username)
}

func TestAuthService_AuthenticateRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-token")
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherRepo := &mocks.MockUserRepository{}
		other := NewAuthService(otherRepo,
			&config.AuthConfig{SecretKey: "different-secret", TokenTTL: time.Hour},
			logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "stderr"}))

		otherRepo.On("GetByUsername", mock.Anything, "eve").Return(&users.User{
			ID:             5,
			Username:       "eve",
			HashedPassword: hashForTest(t, "pw123456"),
			IsActive:       true,
		}, nil)

		_, token, err := other.Login(ctx, "eve", "pw123456")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, token)
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})

	t.Run("expired token", func(t *testing.T) {
		expiredRepo := &mocks.MockUserRepository{}
		expired := NewAuthService(expiredRepo,
			&config.AuthConfig{SecretKey: "test-secret", TokenTTL: -time.Hour},
			logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "stderr"}))

		expiredRepo.On("GetByUsername", mock.Anything, "frank").Return(&users.User{
			ID:             6,
			Username:       "frank",
			HashedPassword: hashForTest(t, "pw123456"),
			IsActive:       true,
		}, nil)

		_, token, err := expired.Login(ctx, "frank", "pw123456")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, token)
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})

	t.Run("deleted user", func(t *testing.T) {
		svc2, userRepo := newAuthFixture()
		stored := &users.User{
			ID:             7,
			Username:       "gone",
			HashedPassword: hashForTest(t, "pw123456"),
			IsActive:       true,
		}
		userRepo.On("GetByUsername", mock.Anything, "gone").Return(stored, nil)
		userRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, nil)

		_, token, err := svc2.Login(ctx, "gone", "pw123456")
		require.NoError(t, err)

		_, err = svc2.Authenticate(ctx, token)
		assert.True(t, errors.Is(err, contracts.ErrInvalidCredentials))
	})
}

func TestAuthService_LongPasswordsAreTruncatedConsistently(t *testing.T) {
	long := strings.Repeat("a", 100)

	hashed, err := hashPassword(long)
	require.NoError(t, err)

	// Bytes past the 72-byte cap do not participate in verification.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), truncateForBcrypt(strings.Repeat("a", 80))))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hashed), truncateForBcrypt(strings.Repeat("b", 80))))
}
