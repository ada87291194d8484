package auth

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/skill-matrix/internal"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/mailer"
)

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	mail       mailer.Mailer
	bcryptCost int
	otpExpiry  time.Duration
	logger     *slog.Logger
}

func NewService(logger *slog.Logger, repo RepositoryAPI, tokens TokenGeneratorAPI, mail mailer.Mailer, security internal.SecurityConfig) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		mail:       mail,
		bcryptCost: security.BCryptCost,
		otpExpiry:  security.OTPExpiry,
		logger:     logger,
	}
}

// Authenticate checks employee code and password against the stored hash.
// Inactive and unknown accounts fail with the same error as a wrong
// password, so responses do not reveal which accounts exist.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	u, err := s.repo.GetActiveByEmployeeCode(dto.EmployeeCode)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "employee_code", dto.EmployeeCode)
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "employee_code", dto.EmployeeCode)
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.EmployeeCode, u.Role)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate access token", err)
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "role", u.Role)

	return &LoginResult{
		AccessToken: token,
		User: UserSummary{
			ID:            u.ID,
			EmployeeCode:  u.EmployeeCode,
			OfficialEmail: u.OfficialEmail,
			EmployeeName:  u.EmployeeName,
			Role:          u.Role,
		},
	}, nil
}

// ForgotPassword generates a one-time code, stores only its hash, and mails
// the plaintext code to the account's official email.
func (s *Service) ForgotPassword(email string) error {
	u, err := s.repo.GetActiveByEmail(email)
	if err != nil {
		return internal.ErrUserNotFound
	}

	otp, err := generateOTP()
	if err != nil {
		return internal.NewInternalError("failed to generate reset code", err)
	}

	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash reset code", err)
	}

	expiry := time.Now().Add(s.otpExpiry)
	if err := s.repo.SaveResetOTP(u.ID, string(otpHash), expiry); err != nil {
		return internal.NewInternalError("failed to store reset code", err)
	}

	subject := "Password Reset Code"
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your password reset code is <b>%s</b>. It expires in %d hours.</p>",
		u.EmployeeName, otp, int(s.otpExpiry.Hours()))
	if err := s.mail.Send(u.OfficialEmail, subject, body); err != nil {
		s.logger.Error("failed to send reset code email", "user_id", u.ID, "error", err)
		return internal.NewInternalError("failed to send reset email", err)
	}

	s.logger.Info("password reset code issued", "user_id", u.ID)
	return nil
}

// VerifyOTP exchanges a valid code for a short-lived reset token. Nothing is
// mutated here; the code stays usable until the password is actually reset
// or the code expires.
func (s *Service) VerifyOTP(email, otp string) (string, error) {
	u, err := s.repo.GetActiveByEmail(email)
	if err != nil {
		return "", internal.ErrUserNotFound
	}

	if u.ResetOTPHash == nil || u.ResetOTPExpiry == nil {
		return "", internal.ErrInvalidOTP
	}

	if time.Now().After(*u.ResetOTPExpiry) {
		return "", internal.ErrOTPExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.ResetOTPHash), []byte(otp)); err != nil {
		s.logger.Warn("reset code mismatch", "user_id", u.ID)
		return "", internal.ErrInvalidOTP
	}

	token, err := s.tokens.GenerateResetToken(u.ID)
	if err != nil {
		return "", internal.NewInternalError("failed to generate reset token", err)
	}

	return token, nil
}

// ResetPassword consumes a reset token, replaces the password hash and
// clears the stored code so it cannot be replayed.
func (s *Service) ResetPassword(token, newPassword string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return err
	}
	if claims.Purpose != tokenPurposeReset {
		return internal.ErrInvalidToken
	}

	u, err := s.repo.GetActiveByID(claims.UserID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePasswordAndClearOTP(u.ID, string(passwordHash)); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password reset completed", "user_id", u.ID)
	return nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		// Reset tokens are not valid for API access.
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) GetUserWithRoles(userID string) (*userdm.User, error) {
	u, err := s.repo.GetUserWithRoles(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
