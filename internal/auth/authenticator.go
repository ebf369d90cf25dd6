package auth

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/courtside/stringdesk/internal/model"
)

// UserStore is the slice of the user repository the authenticator
// needs. The concrete implementation lives in internal/repository.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*model.User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*model.User, error)
	CreateTx(ctx context.Context, tx bun.IDB, user *model.User) (*model.User, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

// RegisterInput carries the fields accepted at sign-up. Validation of
// shape (email format, password length) happens at the transport edge;
// uniqueness is enforced here.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      model.UserRole
}

// Authenticator implements registration, credential login and token
// refresh on top of the user store and the token service.
type Authenticator struct {
	users  UserStore
	tx     TxRunner
	hasher *Hasher
	tokens *TokenService
	logger Logger
}

func NewAuthenticator(users UserStore, tx TxRunner, hasher *Hasher, tokens *TokenService, logger Logger) *Authenticator {
	if logger == nil {
		logger = defLogger{}
	}
	return &Authenticator{
		users:  users,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Tokens exposes the underlying token service, used by the HTTP layer
// to decode bearer tokens without re-wiring configuration.
func (a *Authenticator) Tokens() *TokenService {
	return a.tokens
}

// Register creates a new account. Username is checked before email, so
// when both collide the caller learns about the username first.
// Uniqueness checks and the insert share one transaction; a concurrent
// duplicate slipping past the checks still fails on the unique index
// and surfaces as a conflict.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Role != "" && !model.IsValidRole(input.Role) {
		return nil, goerrors.New("invalid role", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"role": input.Role})
	}

	user := &model.User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := a.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := a.users.GetByUsernameTx(ctx, tx, input.Username); err == nil {
			return ErrUsernameTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username")
		}

		if _, err := a.users.GetByEmailTx(ctx, tx, input.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email")
		}

		hash, err := a.hasher.HashPassword(input.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Email = input.Email
		user.Username = input.Username
		user.PasswordHash = hash
		user.FirstName = input.FirstName
		user.LastName = input.LastName
		user.Phone = input.Phone
		user.Role = input.Role
		user.IsActive = true

		if user, err = a.users.CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	a.logger.Info("registered user", "username", user.Username, "role", user.Role)

	return user, nil
}

// Login verifies a username/password pair and mints a token pair for
// the account. Unknown usernames and wrong passwords are reported
// identically.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}

	if err := a.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	pair, err := a.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a live refresh token for a brand new pair. The
// presented refresh token is not invalidated; it expires on its own
// schedule. The account is re-resolved so deactivation takes effect at
// the next refresh even though issued tokens stay valid.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.tokens.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := claims.RequireKind(TokenKindRefresh); err != nil {
		return nil, err
	}

	user, err := a.resolveSubject(ctx, claims)
	if err != nil {
		return nil, err
	}

	return a.tokens.IssuePair(user.ID)
}

// Verify decodes an access token and resolves it to a live account.
// This is the single gate used by the HTTP middleware.
func (a *Authenticator) Verify(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := a.tokens.Decode(accessToken)
	if err != nil {
		return nil, err
	}

	if err := claims.RequireKind(TokenKindAccess); err != nil {
		return nil, err
	}

	return a.resolveSubject(ctx, claims)
}

func (a *Authenticator) resolveSubject(ctx context.Context, claims *Claims) (*model.User, error) {
	id, err := claims.SubjectUUID()
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve token subject")
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}
