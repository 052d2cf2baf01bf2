package authService

import (
	"Veriface/internal/api/auth"
	contextPkg "Veriface/pkg/context"
	jwtPkg "Veriface/pkg/jwt"
	"context"
	"crypto/subtle"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const accessTokenTTL = time.Hour

// Login authenticates the single configured operator account. The operator
// username comes from OPERATOR_USERNAME and the password is checked against
// the bcrypt hash in OPERATOR_PASSWORD_HASH. Every failure mode collapses
// into the same credentials error so the response does not leak which part
// was wrong.
func (s *authService) Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	operatorUsername := os.Getenv("OPERATOR_USERNAME")
	operatorPasswordHash := os.Getenv("OPERATOR_PASSWORD_HASH")
	if operatorUsername == "" || operatorPasswordHash == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Error("Operator credentials are not configured")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(operatorUsername)) != 1 {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := s.bcryptUtils.ComparePassword(operatorPasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Operator password mismatch")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"id":       "operator",
		"username": operatorUsername,
	}, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}
