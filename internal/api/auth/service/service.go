package authService

import (
	"Veriface/internal/api/auth"
	"Veriface/pkg/bcrypt"
	"context"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
}

type authService struct {
	log         *logrus.Logger
	bcryptUtils bcrypt.IBcrypt
}

func New(log *logrus.Logger, bcryptUtils bcrypt.IBcrypt) AuthService {
	return &authService{
		log:         log,
		bcryptUtils: bcryptUtils,
	}
}
