package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/ratelimiter"
	"github.com/POS-Ninjas/backend/internal/services"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PasswordResetHandler struct {
	svc     *services.PasswordResetService
	limiter ratelimiter.RateLimiter
	limit   ratelimiter.Limit
}

func NewPasswordResetHandler(svc *services.PasswordResetService, limiter ratelimiter.RateLimiter, perMinute int) *PasswordResetHandler {
	if limiter == nil {
		limiter = ratelimiter.AllowAll{}
	}
	return &PasswordResetHandler{
		svc:     svc,
		limiter: limiter,
		limit:   ratelimiter.Limit{PerMinute: perMinute},
	}
}

type requestResetReq struct {
	Email string `json:"email"`
}

type redeemResetReq struct {
	Password string `json:"password"`
}

// RequestReset godoc
// @Summary Запрос на сброс пароля
// @Description Создаёт токен сброса и отправляет ссылку на почту. Сама ссылка в ответ не попадает.
// @Tags password-reset
// @Accept json
// @Produce json
// @Param input body requestResetReq true "Email пользователя"
// @Success 200 {object} helpers.Response
// @Router /reset-password [post]
func (h *PasswordResetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req requestResetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		log.Warn("Невалидный payload в RequestReset")
		helpers.Fail(w, http.StatusOK, "please provide an email")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	if !h.limiter.Allow(r.Context(), "pwreset:"+email, h.limit) {
		log.Warn("Превышен лимит запросов на сброс", zap.String("email", email))
		helpers.Fail(w, http.StatusOK, "too many reset requests, please try again later")
		return
	}

	_, err := h.svc.RequestReset(r.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			helpers.Fail(w, http.StatusOK, fmt.Sprintf("user with %s not found", email))
			return
		}
		log.Error("Сбой при создании заявки на сброс", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not create password reset request")
		return
	}

	helpers.JSON(w, http.StatusOK, nil)
}

// RedeemReset godoc
// @Summary Смена пароля по токену сброса
// @Description Исход всегда в теле ответа (success/reason), HTTP-статус всегда 200.
// @Tags password-reset
// @Accept json
// @Produce json
// @Param token path string true "Токен из письма"
// @Param input body redeemResetReq true "Новый пароль"
// @Success 200 {object} helpers.Response
// @Router /reset-password/{token} [post]
func (h *PasswordResetHandler) RedeemReset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	token := mux.Vars(r)["token"]

	var req redeemResetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный payload в RedeemReset")
		helpers.Fail(w, http.StatusOK, "password must be at least 6 characters")
		return
	}

	err := h.svc.ResetPassword(r.Context(), token, req.Password)
	switch {
	case err == nil:
		helpers.JSON(w, http.StatusOK, "user password updated successfully")
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenUsed):
		// Текст доменной ошибки и есть причина для клиента.
		helpers.Fail(w, http.StatusOK, err.Error())
	default:
		log.Error("Сбой при сбросе пароля", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "user password update was not successful")
	}
}
