// Package auth implements credential issuance and verification, password
// hashing, and the authorization predicates used by the service layer.
//
// Tokens are stateless: the signed payload carries a snapshot of the user's
// identity at login time and is never stored server-side. Verification does
// not touch the database, so snapshot fields (including the admin flag) go
// stale until the token expires. That trade-off is deliberate; callers that
// need fresh flags must go through Guard.Authenticate, which re-fetches the
// user row.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Credential verification errors.
var (
	// ErrExpiredCredential is returned when the token's embedded expiry has
	// passed.
	ErrExpiredCredential = errors.New("credential expired")

	// ErrMalformedCredential is returned when the token structure or
	// signature is invalid.
	ErrMalformedCredential = errors.New("credential malformed")
)

// Identity is the payload embedded in every issued token: a snapshot of the
// user at login time.
type Identity struct {
	UserID   uint    `json:"uid"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
	Email    string  `json:"email"`
}

// claims is the on-wire JWT claim set.
type claims struct {
	Identity
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed, time-limited identity tokens.
// It is a pure function of its inputs plus the current clock; safe for
// concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewCodec constructs a Codec signing with secret and issuing tokens valid
// for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token embedding id, valid for the codec's configured TTL.
func (c *Codec) Issue(id Identity) (string, error) {
	return c.IssueFor(id, c.ttl)
}

// IssueFor signs a token embedding id with an absolute expiry of now+ttl.
// The ttl is honored exactly: a zero or negative value yields a token that is
// already expired and will fail Verify with ErrExpiredCredential.
func (c *Codec) IssueFor(id Identity, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	cl := claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return tok.SignedString(c.secret)
}

// Verify parses and validates token, returning the embedded identity
// snapshot unchanged. It fails with ErrExpiredCredential when the expiry has
// passed and ErrMalformedCredential for any structural or signature problem.
// The snapshot is NOT re-fetched from storage here.
func (c *Codec) Verify(token string) (Identity, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedCredential
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredCredential
		}
		return Identity{}, ErrMalformedCredential
	}
	if !parsed.Valid {
		return Identity{}, ErrMalformedCredential
	}
	return cl.Identity, nil
}
