package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"bookmyflower/internal/models"
	"bookmyflower/internal/notify"
	"bookmyflower/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Token roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const resetTokenTTL = time.Hour

// AuthOptions configures token issuance and the admin account.
type AuthOptions struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
	adminEmail string
	adminPass  string
	composer   *notify.Composer
	notifier   *Notifier
	now        func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, opts AuthOptions, composer *notify.Composer, notifier *Notifier) *AuthService {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(opts.JWTSecret),
		tokenDurat: ttl,
		adminEmail: strings.ToLower(strings.TrimSpace(opts.AdminEmail)),
		adminPass:  opts.AdminPassword,
		composer:   composer,
		notifier:   notifier,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser hashes the password and stores a new user.
func (s *AuthService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email '%s' already registered", ErrDuplicateKey, req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Mobile:   strings.TrimSpace(req.Mobile),
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", translateRepoError(err))
	}
	log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    RoleUser,
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// AdminLogin checks the configured admin credentials.
func (s *AuthService) AdminLogin(req *models.LoginRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return "", err
	}
	if s.adminEmail == "" || s.adminPass == "" {
		return "", ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPass)) == 1
	if !emailOK || !passOK {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(jwt.MapClaims{
		"email": s.adminEmail,
		"role":  RoleAdmin,
	})
}

func (s *AuthService) issueToken(claims jwt.MapClaims) (string, error) {
	now := s.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.tokenDurat).Unix()

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword stores a one-hour reset token and emails the link. Unknown
// addresses are ignored so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(translateRepoError(err)) {
			log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	expires := s.now().Add(resetTokenTTL)
	user.ResetTokenHash = hashResetToken(token)
	user.ResetTokenExpiresAt = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.composer != nil {
		email, err := s.composer.PasswordReset(user, token, resetTokenTTL)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("failed to compose password reset email")
			return nil
		}
		s.notifier.Dispatch(email)
	}
	return nil
}

// ResetPassword replaces the password of the user holding a live reset token.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetTokenHash(ctx, hashResetToken(req.Token))
	if err != nil {
		if isNotFound(translateRepoError(err)) {
			return fmt.Errorf("%w: reset token is invalid", ErrInvalidToken)
		}
		return err
	}
	if user.ResetTokenExpiresAt == nil || !s.now().Before(*user.ResetTokenExpiresAt) {
		return fmt.Errorf("%w: reset token has expired", ErrInvalidToken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.ResetTokenHash = ""
	user.ResetTokenExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}
