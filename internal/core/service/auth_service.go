package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

const resetWindow = 10 * time.Minute

// AuthService implements login, admin registration and the password
// lifecycle over the role-partitioned identity store.
type AuthService struct {
	repo     ports.IdentityRepository
	hasher   *PasswordHasher
	tokens   ports.TokenIssuer
	outbox   ports.MailOutbox
	throttle ports.ResetThrottle
	logger   zerolog.Logger
}

func NewAuthService(
	repo ports.IdentityRepository,
	hasher *PasswordHasher,
	tokens ports.TokenIssuer,
	outbox ports.MailOutbox,
	throttle ports.ResetThrottle,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		outbox:   outbox,
		throttle: throttle,
		logger:   logger,
	}
}

// Login verifies credentials within the given role partition. The identifier
// is treated as an email when it contains "@", otherwise as a username. A
// missing record and a wrong password both come back as ErrInvalidCredentials
// so the response never reveals which half failed.
func (s *AuthService) Login(ctx context.Context, role domain.Role, identifier, password string) (*ports.LoginResult, error) {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("identifier and password are required: %w", domain.ErrBadRequest)
	}

	identity, err := s.findByIdentifier(ctx, role, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if identity.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !identity.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	if !s.hasher.Verify(password, identity.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	identity.LastLogin = time.Now().UTC()
	if err := s.repo.Update(ctx, identity); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("role", string(role)).Str("id", identity.ID).Msg("login successful")
	return &ports.LoginResult{Token: token, Identity: identity.Public()}, nil
}

// RegisterAdmin creates an admin account. The very first admin registers
// without authentication (store bootstrap); once any admin exists, ActorID
// must identify an authenticated admin.
func (s *AuthService) RegisterAdmin(ctx context.Context, input ports.RegisterAdminInput) (*ports.LoginResult, error) {
	username := domain.NormalizeUsername(input.Username)
	email := domain.NormalizeEmail(input.Email)

	switch {
	case !domain.ValidUsername(username):
		return nil, fmt.Errorf("invalid username: %w", domain.ErrBadRequest)
	case !domain.ValidEmail(email):
		return nil, fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	case strings.TrimSpace(input.Password) == "":
		return nil, fmt.Errorf("password is required: %w", domain.ErrBadRequest)
	case !domain.ValidPhone(input.Phone):
		return nil, fmt.Errorf("invalid phone number: %w", domain.ErrBadRequest)
	}

	count, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 && input.ActorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	if err := s.checkDuplicate(ctx, domain.RoleAdmin, email, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Identity{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         domain.RoleAdmin,
		Image:        input.Image,
		IsActive:     true,
		CreatedBy:    input.ActorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.outbox.Enqueue(welcomeMail(created))
	s.logger.Info().Str("id", created.ID).Bool("bootstrap", count == 0).Msg("admin registered")

	return &ports.LoginResult{Token: token, Identity: created.Public()}, nil
}

// ChangePassword verifies the current password before rehashing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, role domain.Role, id, currentPassword, newPassword string) error {
	if strings.TrimSpace(currentPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("current and new password are required: %w", domain.ErrBadRequest)
	}

	identity, err := s.repo.FindByID(ctx, role, id, true)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, identity.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrBadRequest)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	identity.PasswordHash = hash
	identity.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, identity)
}

// ForgotPassword starts the 6-digit-code reset variant. By contract it
// reports success whether or not the address exists and swallows internal
// failures, so callers cannot enumerate accounts. Requesting again replaces
// the stored pair, invalidating any earlier code.
func (s *AuthService) ForgotPassword(ctx context.Context, role domain.Role, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}

	if allowed, err := s.throttle.Allow(ctx, role, email); err != nil {
		s.logger.Warn().Err(err).Msg("reset throttle unavailable")
	} else if !allowed {
		s.logger.Debug().Str("role", string(role)).Msg("forgot-password throttled")
		return nil
	}

	identity, err := s.repo.FindByEmail(ctx, role, email)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			s.logger.Error().Err(err).Msg("forgot-password lookup failed")
		}
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		s.logger.Error().Err(err).Msg("reset code generation failed")
		return nil
	}

	identity.ResetCode = code
	identity.ResetCodeExpire = time.Now().UTC().Add(resetWindow)
	if err := s.repo.Update(ctx, identity); err != nil {
		s.logger.Error().Err(err).Msg("reset code persist failed")
		return nil
	}

	s.outbox.Enqueue(resetCodeMail(identity, code))
	return nil
}

// ResetPasswordWithCode completes the code variant. The code must match the
// stored value exactly and be inside its window; failures do not reveal
// whether the address exists.
func (s *AuthService) ResetPasswordWithCode(ctx context.Context, role domain.Role, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("email, code and new password are required: %w", domain.ErrBadRequest)
	}

	identity, err := s.repo.FindByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return domain.ErrInvalidResetCode
		}
		return err
	}
	codeMatches := subtle.ConstantTimeCompare([]byte(identity.ResetCode), []byte(code)) == 1
	if identity.ResetCode == "" || !codeMatches || time.Now().UTC().After(identity.ResetCodeExpire) {
		return domain.ErrInvalidResetCode
	}

	return s.applyNewPassword(ctx, identity, newPassword)
}

// RequestResetToken starts the hashed-token reset variant: a random 20-byte
// hex token goes out by mail while only its sha256 is stored. Same
// enumeration-safe contract as ForgotPassword.
func (s *AuthService) RequestResetToken(ctx context.Context, role domain.Role, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}

	if allowed, err := s.throttle.Allow(ctx, role, email); err != nil {
		s.logger.Warn().Err(err).Msg("reset throttle unavailable")
	} else if !allowed {
		return nil
	}

	identity, err := s.repo.FindByEmail(ctx, role, email)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			s.logger.Error().Err(err).Msg("reset-token lookup failed")
		}
		return nil
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		s.logger.Error().Err(err).Msg("reset token generation failed")
		return nil
	}
	token := hex.EncodeToString(raw)

	identity.ResetTokenHash = HashResetToken(token)
	identity.ResetTokenExpire = time.Now().UTC().Add(resetWindow)
	if err := s.repo.Update(ctx, identity); err != nil {
		s.logger.Error().Err(err).Msg("reset token persist failed")
		return nil
	}

	s.outbox.Enqueue(resetTokenMail(identity, token))
	return nil
}

// ResetPasswordWithToken completes the token variant and, on success, issues
// a fresh session token so the account is logged straight in.
func (s *AuthService) ResetPasswordWithToken(ctx context.Context, role domain.Role, token, newPassword string) (*ports.LoginResult, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return nil, fmt.Errorf("token and new password are required: %w", domain.ErrBadRequest)
	}

	identity, err := s.repo.FindByResetTokenHash(ctx, role, HashResetToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidResetCode
		}
		return nil, err
	}
	if time.Now().UTC().After(identity.ResetTokenExpire) {
		return nil, domain.ErrInvalidResetCode
	}

	if err := s.applyNewPassword(ctx, identity, newPassword); err != nil {
		return nil, err
	}

	session, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.LoginResult{Token: session, Identity: identity.Public()}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, role domain.Role, identifier string) (*domain.Identity, error) {
	if strings.Contains(identifier, "@") {
		return s.repo.FindByEmail(ctx, role, domain.NormalizeEmail(identifier))
	}
	return s.repo.FindByUsername(ctx, role, domain.NormalizeUsername(identifier))
}

func (s *AuthService) checkDuplicate(ctx context.Context, role domain.Role, email, username string) error {
	if _, err := s.repo.FindByEmail(ctx, role, email); err == nil {
		return domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrIdentityNotFound) {
		return err
	}
	if _, err := s.repo.FindByUsername(ctx, role, username); err == nil {
		return domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrIdentityNotFound) {
		return err
	}
	return nil
}

// applyNewPassword rehashes, clears both reset secrets and persists.
func (s *AuthService) applyNewPassword(ctx context.Context, identity *domain.Identity, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	identity.PasswordHash = hash
	identity.ResetCode = ""
	identity.ResetCodeExpire = time.Time{}
	identity.ResetTokenHash = ""
	identity.ResetTokenExpire = time.Time{}
	identity.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, identity)
}

// HashResetToken is the one-way digest applied before a reset token touches
// storage: a leaked database row is not enough to complete a reset.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateResetCode returns a uniform 6-digit code from crypto/rand.
func generateResetCode() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint64(b[:]) % 900000
	return fmt.Sprintf("%06d", 100000+n), nil
}
