package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"civicreport-be/middlewares"
	"civicreport-be/models"
	"civicreport-be/services"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the auth_token cookie set on login.
type CookieOptions struct {
	Domain     string
	Production bool
	MaxAge     time.Duration
}

type AuthController struct {
	auth   *services.AuthService
	cookie CookieOptions
	log    *slog.Logger
}

func NewAuthController(auth *services.AuthService, cookie CookieOptions, log *slog.Logger) *AuthController {
	return &AuthController{auth: auth, cookie: cookie, log: log}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterUser handles user registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Username       string                `json:"username" binding:"required,max=50"`
		Email          string                `json:"email" binding:"required,email"`
		Password       string                `json:"password" binding:"required"`
		Role           models.Role           `json:"role" binding:"omitempty,role"`
		Specialization models.Specialization `json:"specialization" binding:"omitempty,specialization"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := ac.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:       input.Username,
		Email:          input.Email,
		Password:       input.Password,
		Role:           input.Role,
		Specialization: input.Specialization,
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.setCookie(c, token)
	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.setCookie(c, token)
	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// LogoutUser clears the auth_token cookie
func (ac *AuthController) LogoutUser(c *gin.Context) {
	c.SetSameSite(ac.sameSite())
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ac.domain(), ac.cookie.Production, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (ac *AuthController) setCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(ac.cookie.MaxAge.Seconds()),
		Path:     "/",
		Domain:   ac.domain(),
		Secure:   ac.cookie.Production,
		HttpOnly: true,
		SameSite: ac.sameSite(),
	})
}

// In production the frontend lives on another origin, so the cookie has
// no domain and must be SameSite=None.
func (ac *AuthController) domain() string {
	if ac.cookie.Production {
		return ""
	}
	return ac.cookie.Domain
}

func (ac *AuthController) sameSite() http.SameSite {
	if ac.cookie.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
