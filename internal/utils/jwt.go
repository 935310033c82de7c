package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for token verification failures
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Verification errors returned by VerifyToken.  ErrTokenExpired means the
// token was well formed and correctly signed but its expiry has passed.
// ErrTokenInvalid covers everything else: malformed tokens, unexpected
// signing algorithms and bad signatures.  Callers that only care about
// "valid or not" can treat both the same; the split exists because an
// expired verification link and a forged one deserve different log lines.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// AuthToken represents a signed JWT along with its expiry.  The Token
// field contains the serialized JWT string.  Exp stores the expiration
// timestamp as a time.Time.  The same structure serves both short-lived
// email-verification tokens and longer-lived session tokens; only the
// TTL the caller passes differs.
type AuthToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAuthToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID and a TTL.  The JWT carries the standard
// claims: subject (sub), expiration (exp) and issued at (iat).  Tokens
// are stateless; validity is purely a function of signature and expiry,
// there is no server-side revocation list.
func NewAuthToken(secret string, userID uint64, ttl time.Duration) (AuthToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(ttl)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AuthToken{}, err
    }
    return AuthToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a signed token and returns the user ID
// from the subject claim.  Failures are classified into ErrTokenExpired
// and ErrTokenInvalid.
func VerifyToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything other than HMAC; accepting
        // the token's own alg header would let a forger pick "none".
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return 0, ErrTokenExpired
        }
        return 0, ErrTokenInvalid
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    // JWT numeric values decode as float64; sub is always numeric here
    // because NewAuthToken writes a uint64.
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return 0, ErrTokenInvalid
    }
    return uint64(sub), nil
}
