package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/groundops/ops-backend-go/internal/domain/auth"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeAccess is the only token type the API accepts.
const TokenTypeAccess = "access"

// Service verifies access tokens issued by the identity service. Minting is
// kept for trusted internal callers and tests; login lives elsewhere.
type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": p.UserID,
		"role":    string(p.Role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if p.EmployeeID != nil {
		claims["employee_id"] = *p.EmployeeID
	}
	if p.Shift != nil {
		claims["shift"] = *p.Shift
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims reads the caller identity out of verified claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, auth.ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return user.Principal{}, auth.ErrInvalidToken
	}

	return user.Principal{
		UserID:     userID,
		EmployeeID: stringOrNil(claims["employee_id"]),
		Role:       user.Role(role),
		Shift:      stringOrNil(claims["shift"]),
	}, nil
}

func stringOrNil(value interface{}) *string {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
