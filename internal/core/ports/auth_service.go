package ports

import (
	"context"

	"github.com/staffdesk/admin-panel/internal/core/domain"
)

// TokenClaims is the decoded identity carried inside a session token.
type TokenClaims struct {
	ID    string
	Role  domain.Role
	Email string
}

// TokenIssuer mints signed session tokens for authenticated identities.
type TokenIssuer interface {
	Issue(identity *domain.Identity) (string, error)
}

// TokenVerifier checks a presented token and returns its claims. Any failure
// (bad signature, expired, unparsable) is returned as an error; callers
// surface all of them uniformly as unauthenticated.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string
	Identity *domain.Identity
}

// RegisterAdminInput carries the fields for admin registration. ActorID is
// the authenticated admin creating the account, or empty for the bootstrap
// registration of the very first admin.
type RegisterAdminInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Image    string
	ActorID  string
}

// AuthService implements credential verification and the password lifecycle.
type AuthService interface {
	Login(ctx context.Context, role domain.Role, identifier, password string) (*LoginResult, error)
	RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*LoginResult, error)
	ChangePassword(ctx context.Context, role domain.Role, id, currentPassword, newPassword string) error

	// ForgotPassword starts the 6-digit-code reset variant. It reports
	// success whether or not the address exists.
	ForgotPassword(ctx context.Context, role domain.Role, email string) error
	ResetPasswordWithCode(ctx context.Context, role domain.Role, email, code, newPassword string) error

	// RequestResetToken starts the hashed-token reset variant, mailing an
	// opaque token whose sha256 is stored. Same enumeration-safe contract.
	RequestResetToken(ctx context.Context, role domain.Role, email string) error
	ResetPasswordWithToken(ctx context.Context, role domain.Role, token, newPassword string) (*LoginResult, error)
}
