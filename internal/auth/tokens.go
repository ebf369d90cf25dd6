package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenKind discriminates access from refresh tokens. The two are never
// interchangeable: every consumer checks the typ claim.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the signed claim set carried by every token: subject,
// expiry and the kind discriminator.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ,omitempty"`
}

// Kind returns the token's type discriminator.
func (c *Claims) Kind() TokenKind {
	return TokenKind(c.TokenType)
}

// RequireKind confirms the typ claim matches the expected tag.
func (c *Claims) RequireKind(expected TokenKind) error {
	if c.Kind() != expected {
		return ErrTokenKindMismatch
	}
	return nil
}

// SubjectUUID parses the subject claim into a user identifier.
func (c *Claims) SubjectUUID() (uuid.UUID, error) {
	if c.Subject == "" {
		return uuid.Nil, ErrTokenNoSubject
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenNoSubject
	}
	return id, nil
}

// TokenPair is the credential set handed out by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenService signs and verifies compact expiring tokens with a
// process-wide HMAC secret. There is no revocation: compromise of the
// secret invalidates the whole trust boundary at once, and an issued
// token stays valid until its own expiry.
type TokenService struct {
	signingKey []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     Logger
}

// NewTokenService creates a TokenService. algorithm must name an HMAC
// method (HS256 family); anything else is rejected up front.
func NewTokenService(signingKey []byte, algorithm, issuer string, accessTTL, refreshTTL time.Duration, logger Logger) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, goerrors.New("signing key must not be empty", goerrors.CategoryBadInput)
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, goerrors.New(
			fmt.Sprintf("unsupported signing method: %s", algorithm),
			goerrors.CategoryBadInput,
		)
	}

	if logger == nil {
		logger = defLogger{}
	}

	return &TokenService{
		signingKey: signingKey,
		method:     method,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}, nil
}

// TTL returns the configured lifetime for the given kind.
func (ts *TokenService) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return ts.refreshTTL
	}
	return ts.accessTTL
}

// Issue mints a signed token of the given kind for the subject.
func (ts *TokenService) Issue(subject uuid.UUID, kind TokenKind) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.TTL(kind))),
		},
		TokenType: string(kind),
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// IssuePair mints a fresh access+refresh pair for the subject. Multiple
// valid pairs may coexist for one user.
func (ts *TokenService) IssuePair(subject uuid.UUID) (*TokenPair, error) {
	access, err := ts.Issue(subject, TokenKindAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.Issue(subject, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Decode verifies signature and expiry and returns the structured
// claims. Failures come back as explicit rich errors, never panics.
func (ts *TokenService) Decode(tokenString string) (*Claims, error) {
	parserOptions := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Error("token decode could not extract claims")
		return nil, ErrTokenMalformed
	}

	if claims.TokenType == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
