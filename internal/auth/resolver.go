package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/repository"
)

// ErrUnauthenticated means no usable identity could be resolved from a request.
var ErrUnauthenticated = errors.New("unauthenticated")

// Failure reasons reported by FailureReason.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonUnknownUser  = "unknown_user"
	ReasonInactiveUser = "inactive_user"
	ReasonLookupFailed = "lookup_failed"
)

type resolveError struct {
	reason string
}

func (e *resolveError) Error() string        { return "unauthenticated: " + e.reason }
func (e *resolveError) Is(target error) bool { return target == ErrUnauthenticated }

// FailureReason extracts the reason from an error returned by Resolve.
func FailureReason(err error) string {
	var re *resolveError
	if errors.As(err, &re) {
		return re.reason
	}
	return ""
}

// TokenVerifier decodes a session token into its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup loads users by ID.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Resolver maps a raw session token to the user it was issued for.
type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
	logger *zap.Logger
}

// NewResolver builds a resolver.
func NewResolver(tokens TokenVerifier, users UserLookup, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{tokens: tokens, users: users, logger: logger}
}

// Resolve returns the user owning token. Every failure, including a storage
// error, matches ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, &resolveError{reason: ReasonMissingToken}
	}

	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, &resolveError{reason: ReasonInvalidToken}
	}

	user, err := r.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &resolveError{reason: ReasonUnknownUser}
		}
		r.logger.Error("identity lookup failed", zap.String("subject", subject), zap.Error(err))
		return nil, &resolveError{reason: ReasonLookupFailed}
	}
	if !user.IsActive {
		return nil, &resolveError{reason: ReasonInactiveUser}
	}
	return user, nil
}

// ResolveOptional is Resolve for pages that also serve guests: any failure
// yields nil, meaning anonymous.
func (r *Resolver) ResolveOptional(ctx context.Context, token string) *domain.User {
	user, err := r.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	return user
}
