package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuditReader interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.AuditLog, error)
}

type AuditHandler struct {
	repo AuditReader
}

func NewAuditHandler(repo AuditReader) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListByUser godoc
// @Summary Журнал аудита по пользователю
// @Tags audit
// @Security ApiKeyAuth
// @Produce json
// @Param user_id path int true "ID пользователя"
// @Param limit query int false "Максимум записей (по умолчанию 100)"
// @Success 200 {object} helpers.Response
// @Router /audit/{user_id} [get]
func (h *AuditHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		helpers.Fail(w, http.StatusOK, "invalid user id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.repo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		log.Error("Ошибка чтения журнала аудита", zap.Error(err), zap.Int64("user_id", userID))
		helpers.Fail(w, http.StatusOK, "could not fetch audit trail")
		return
	}
	helpers.JSON(w, http.StatusOK, entries)
}
