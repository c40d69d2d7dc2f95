package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/POS-Ninjas/backend/internal/config"
	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/repository"
	"github.com/POS-Ninjas/backend/internal/services"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type loginResponse struct {
	BearerToken string `json:"bearerToken"`
	Redirect    string `json:"redirect"`
}

// Signup godoc
// @Summary Регистрация пользователя
// @Tags users
// @Accept json
// @Produce json
// @Param input body models.SignupRequest true "Данные регистрации"
// @Success 200 {object} helpers.Response
// @Router /users/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON в Signup", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "invalid request payload")
		return
	}

	if err := validate.Struct(req); err != nil {
		reason := validationReason(err)
		log.Warn("Ошибка валидации формы регистрации", zap.String("reason", reason))
		helpers.Fail(w, http.StatusOK, reason)
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			helpers.Fail(w, http.StatusOK, "user with this username or email already exists")
			return
		}
		log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not create user")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]int64{"user_id": user.ID})
}

// Login godoc
// @Summary Вход по email или username
// @Tags users
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Данные для входа"
// @Success 200 {object} helpers.Response
// @Router /users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON в Login", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "invalid request payload")
		return
	}

	if req.Username == "" && req.Email == "" {
		helpers.Fail(w, http.StatusOK, "Check inputs: (username / password / email) one is missing")
		return
	}
	if len(req.Password) < 6 {
		helpers.Fail(w, http.StatusOK, "Password must be at least 6 characters")
		return
	}

	ttl, err := time.ParseDuration(h.cfg.AccessTokenTTL)
	if err != nil || ttl <= 0 {
		ttl = time.Hour
	}

	var (
		token string
		user  *models.User
	)
	if req.Email != "" {
		token, user, err = h.authService.LoginByEmail(r.Context(), req.Email, req.Password, h.cfg.JWTSecret, h.cfg.JWTIssuer, ttl)
		if errors.Is(err, services.ErrLoginNotFound) {
			helpers.Fail(w, http.StatusOK, fmt.Sprintf("user with %s email not found", req.Email))
			return
		}
	} else {
		token, user, err = h.authService.LoginByUsername(r.Context(), req.Username, req.Password, h.cfg.JWTSecret, h.cfg.JWTIssuer, ttl)
		if errors.Is(err, services.ErrLoginNotFound) {
			helpers.Fail(w, http.StatusOK, "could not find user")
			return
		}
	}
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			helpers.Fail(w, http.StatusOK, err.Error())
			return
		}
		log.Error("Ошибка входа пользователя", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not authenticate user")
		return
	}

	log.Info("Вход выполнен", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	helpers.JSON(w, http.StatusOK, loginResponse{
		BearerToken: token,
		Redirect:    "/user/products",
	})
}

// GetActiveUsers godoc
// @Summary Список активных пользователей
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /users/active [get]
func (h *AuthHandler) GetActiveUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	users, err := h.authService.GetActiveUsers(r.Context())
	if err != nil {
		log.Error("Ошибка получения активных пользователей", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not fetch active users")
		return
	}
	helpers.JSON(w, http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Удаление пользователя по username
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} helpers.Response
// @Router /users/{username} [delete]
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	username := strings.TrimSpace(mux.Vars(r)["username"])
	if username == "" {
		helpers.Fail(w, http.StatusOK, "please enter the username")
		return
	}

	n, err := h.authService.DeleteUserByUsername(r.Context(), username)
	if err != nil {
		log.Error("Ошибка удаления пользователя", zap.Error(err), zap.String("username", username))
		helpers.Fail(w, http.StatusOK, "could not delete user")
		return
	}
	if n == 0 {
		helpers.Fail(w, http.StatusOK, fmt.Sprintf("user %s not found", username))
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"deleted": username})
}
