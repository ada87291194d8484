package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/skill-matrix/internal"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

const tokenPurposeReset = "password_reset"

// Claims are the JWT payload: subject id plus the coarse role used for
// route-level checks.
type Claims struct {
	UserID       string `json:"user_id"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"role"`
	Purpose      string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, employeeCode, role string) (string, error)
	GenerateResetToken(userID string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	ForgotPassword(email string) error
	VerifyOTP(email, otp string) (string, error)
	ResetPassword(token, newPassword string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithRoles(userID string) (*userdm.User, error)
}

type RepositoryAPI interface {
	GetActiveByEmployeeCode(code string) (*userdm.User, error)
	GetActiveByEmail(email string) (*userdm.User, error)
	GetActiveByID(id string) (*userdm.User, error)
	GetUserWithRoles(id string) (*userdm.User, error)
	SaveResetOTP(userID, otpHash string, expiry time.Time) error
	UpdatePasswordAndClearOTP(userID, passwordHash string) error
}

// UserSummary is the login response payload alongside the token.
type UserSummary struct {
	ID            string `json:"id"`
	EmployeeCode  string `json:"employeeCode"`
	OfficialEmail string `json:"officialEmail"`
	EmployeeName  string `json:"employeeName"`
	Role          string `json:"role"`
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

func NewJWTTokenGenerator(secret string, accessTTL, resetTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: accessTTL,
		ResetTokenTTL:  resetTTL,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, employeeCode, role string) (string, error) {
	claims := &Claims{
		UserID:       userID,
		EmployeeCode: employeeCode,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// GenerateResetToken creates the short-lived token issued after OTP
// verification; it is only good for the reset-password endpoint.
func (j *JWTTokenGenerator) GenerateResetToken(userID string) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Purpose: tokenPurposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.ResetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}

// UserFromContext returns the authenticated user placed by the auth
// middleware.
func UserFromContext(ctx context.Context) (*userdm.User, bool) {
	u, ok := ctx.Value(internal.ContextUserKey).(*userdm.User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *userdm.User) context.Context {
	return context.WithValue(ctx, internal.ContextUserKey, u)
}
