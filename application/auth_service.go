package application

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"importsvc/domain/contracts"
	"importsvc/domain/users"
	"importsvc/infrastructure/config"
	"importsvc/logging"
)

// bcryptCost matches the work factor the user records were hashed with.
const bcryptCost = 12

// AuthService handles registration, login, and token verification.
type AuthService interface {
	// Register creates a new user account and returns a signed access token.
	// Returns ErrUsernameTaken or ErrEmailTaken on duplicates.
	Register(ctx context.Context, email, username, password string) (*users.User, string, error)

	// Login verifies a username/password pair and returns a signed access
	// token. Returns ErrInvalidCredentials on mismatch and ErrInactiveUser
	// for deactivated accounts.
	Login(ctx context.Context, username, password string) (*users.User, string, error)

	// Authenticate verifies an access token and resolves its user. Returns
	// ErrInvalidCredentials for bad tokens and ErrInactiveUser for tokens
	// belonging to deactivated accounts.
	Authenticate(ctx context.Context, token string) (*users.User, error)
}

type authService struct {
	userRepo contracts.UserRepository
	cfg      *config.AuthConfig
	logger   *logging.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(userRepo contracts.UserRepository, cfg *config.AuthConfig, logger *logging.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.WithComponent("auth_service"),
	}
}

func (s *authService) Register(ctx context.Context, email, username, password string) (*users.User, string, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", contracts.ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", contracts.ErrEmailTaken
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, email, username, hashed)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Security("User registered", "user_id", user.ID, "username", username)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*users.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", contracts.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), truncateForBcrypt(password)); err != nil {
		s.logger.Security("Login failed", "username", username)
		return nil, "", contracts.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", contracts.ErrInactiveUser
	}

	s.logger.Security("User logged in", "user_id", user.ID, "username", username)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*users.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return nil, contracts.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, contracts.ErrInvalidCredentials
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, contracts.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, int64(rawID))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, contracts.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, contracts.ErrInactiveUser
	}

	return user, nil
}

func (s *authService) issueToken(user *users.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// truncateForBcrypt caps the input at bcrypt's 72-byte limit; longer inputs
// would otherwise be rejected outright.
func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}
