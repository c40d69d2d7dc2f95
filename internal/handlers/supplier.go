package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/services"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SupplierHandler struct{ svc *services.SupplierService }

func NewSupplierHandler(svc *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// GetAll godoc
// @Summary Все поставщики
// @Tags suppliers
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /suppliers/all [get]
func (h *SupplierHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	suppliers, err := h.svc.GetAll(r.Context())
	if err != nil {
		log.Error("Ошибка получения поставщиков", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not fetch suppliers")
		return
	}
	helpers.JSON(w, http.StatusOK, suppliers)
}

// GetActive godoc
// @Summary Активные поставщики
// @Tags suppliers
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /suppliers/active [get]
func (h *SupplierHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	suppliers, err := h.svc.GetActive(r.Context())
	if err != nil {
		log.Error("Ошибка получения активных поставщиков", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not fetch suppliers")
		return
	}
	helpers.JSON(w, http.StatusOK, suppliers)
}

// Search godoc
// @Summary Поиск поставщиков по ИНН, телефону или названию
// @Tags suppliers
// @Produce json
// @Param tin query string false "Налоговый номер"
// @Param phone query string false "Телефон"
// @Param company query string false "Название компании"
// @Success 200 {object} helpers.Response
// @Router /suppliers [get]
func (h *SupplierHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	q := r.URL.Query()
	tin := q.Get("tin")
	phone := q.Get("phone")
	company := q.Get("company")

	var (
		suppliers []*models.Supplier
		err       error
	)
	switch {
	case tin != "":
		suppliers, err = h.svc.FindByTIN(r.Context(), tin)
	case phone != "":
		suppliers, err = h.svc.FindByPhone(r.Context(), phone)
	case company != "":
		suppliers, err = h.svc.FindByCompanyName(r.Context(), company)
	default:
		helpers.Fail(w, http.StatusOK, "please enter the tax identification number, phone or company name")
		return
	}

	if err != nil {
		log.Error("Ошибка поиска поставщиков", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not search suppliers")
		return
	}
	helpers.JSON(w, http.StatusOK, suppliers)
}

// Create godoc
// @Summary Создать поставщика
// @Tags suppliers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.Supplier true "Данные поставщика"
// @Success 201 {object} helpers.Response
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.Supplier
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON при создании поставщика", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "invalid request payload")
		return
	}
	if req.CompanyName == "" {
		helpers.Fail(w, http.StatusOK, "please enter the company's name")
		return
	}

	id, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		log.Error("Ошибка создания поставщика", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not create supplier")
		return
	}

	log.Info("Поставщик создан", zap.Int64("supplier_id", id))
	helpers.JSON(w, http.StatusCreated, map[string]int64{"supplier_id": id})
}

// Delete godoc
// @Summary Деактивировать поставщика
// @Tags suppliers
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID поставщика"
// @Success 200 {object} helpers.Response
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		helpers.Fail(w, http.StatusOK, "invalid supplier id")
		return
	}

	n, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		log.Error("Ошибка удаления поставщика", zap.Error(err), zap.Int64("supplier_id", id))
		helpers.Fail(w, http.StatusOK, "could not delete supplier")
		return
	}
	if n == 0 {
		helpers.Fail(w, http.StatusOK, "supplier not found")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]int64{"supplier_id": id})
}
