package auth

import (
	"Veriface/pkg/response"
	"net/http"
)

var (
	ErrInvalidCredentials = response.NewError(http.StatusUnauthorized, "invalid username or password")
)
