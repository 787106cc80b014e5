package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velizarh/taskboard/internal/config"
	"github.com/velizarh/taskboard/internal/model"
	"github.com/velizarh/taskboard/internal/repository"
	"github.com/velizarh/taskboard/internal/utils"
	"github.com/velizarh/taskboard/internal/validator"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authData struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates an account and returns the user with a session token.
// A duplicate email fails with 400; the stored email is normalized and the
// response never carries the password in any form.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if errs := validator.ValidateRegister(req.Email, req.Password, req.Name); errs.HasErrors() {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.Name, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
		return err
	}

	tok, err := h.issueToken(u.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "User registered successfully", authData{User: u, Token: tok})
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password answer identically with 401 so the
// existence of an account is never leaked.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if errs := validator.ValidateLogin(req.Email, req.Password); errs.HasErrors() {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := h.issueToken(u.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login successful", authData{User: u, Token: tok})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Token is valid but the account is gone.
			return fail(c, http.StatusUnauthorized, "Invalid token")
		}
		return err
	}
	return respond(c, http.StatusOK, "", echo.Map{"user": u})
}

func (h *AuthHandler) issueToken(userID string) (string, error) {
	ttl := time.Duration(h.Cfg.TokenTTLHours) * time.Hour
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, userID, ttl)
	if err != nil {
		return "", err
	}
	return tok.Token, nil
}
