package controllers

import (
	"net/http"

	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/middleware"
	"github.com/dkrylov/camshop/pkg/response"
)

// AuthController issues and refreshes back-office tokens.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Login(in.Email, in.Password)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	response.Success(w, pair)
}

// Refresh handles POST /api/auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	response.Success(w, pair)
}

// Me handles GET /api/auth/me, returning the authenticated claims.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]interface{}{
		"userId": claims.UserID,
		"role":   claims.Role,
	})
}
