package utils // package utils provides helpers for minting and checking access keys

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// Roles carried by access keys.  Anon keys are what the board ships with;
// service keys are for operators and scripts.
const (
    RoleAnon    = "anon"
    RoleService = "service"
)

// ErrInvalidKey is returned for keys that fail signature, expiry or claim checks.
var ErrInvalidKey = errors.New("invalid access key")

// AccessKey is a signed HS256 token along with its expiry.  A zero Exp means
// the key does not expire.
type AccessKey struct {
    Token string
    Exp   time.Time
}

// NewAccessKey signs a key for role.  ttl <= 0 yields a non-expiring key,
// which is how hosted tables usually hand out their public anon key.
func NewAccessKey(secret, role string, ttl time.Duration) (AccessKey, error) {
    if secret == "" {
        return AccessKey{}, errors.New("empty signing secret")
    }
    if role != RoleAnon && role != RoleService {
        return AccessKey{}, errors.New("unknown role: " + role)
    }
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "role": role,
        "iat":  now.Unix(),
        "jti":  uuid.NewString(),
    }
    var exp time.Time
    if ttl > 0 {
        exp = now.Add(ttl)
        claims["exp"] = exp.Unix()
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessKey{}, err
    }
    return AccessKey{Token: signed, Exp: exp}, nil
}

// ParseAccessKey verifies raw and returns its role claim.
func ParseAccessKey(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return "", ErrInvalidKey
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidKey
    }
    role, _ := claims["role"].(string)
    if role != RoleAnon && role != RoleService {
        return "", ErrInvalidKey
    }
    return role, nil
}
