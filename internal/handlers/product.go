package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/services"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProductHandler struct{ svc *services.ProductService }

func NewProductHandler(svc *services.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// GetAll godoc
// @Summary Все товары
// @Tags products
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /products/all [get]
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	products, err := h.svc.GetAll(r.Context())
	if err != nil {
		log.Error("Ошибка получения товаров", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not fetch products")
		return
	}
	helpers.JSON(w, http.StatusOK, products)
}

// GetByID godoc
// @Summary Товар по ID
// @Tags products
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} helpers.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		helpers.Fail(w, http.StatusOK, "invalid product id")
		return
	}

	product, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Fail(w, http.StatusOK, "product not found")
			return
		}
		log.Error("Ошибка получения товара", zap.Error(err), zap.Int64("product_id", id))
		helpers.Fail(w, http.StatusOK, "could not fetch product")
		return
	}
	helpers.JSON(w, http.StatusOK, product)
}

// GetByBarcode godoc
// @Summary Товар по штрихкоду
// @Tags products
// @Produce json
// @Param barcode path string true "Штрихкод"
// @Success 200 {object} helpers.Response
// @Router /products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	barcode := mux.Vars(r)["barcode"]
	product, err := h.svc.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Fail(w, http.StatusOK, "product not found")
			return
		}
		log.Error("Ошибка получения товара по штрихкоду", zap.Error(err), zap.String("barcode", barcode))
		helpers.Fail(w, http.StatusOK, "could not fetch product")
		return
	}
	helpers.JSON(w, http.StatusOK, product)
}

// GetLowStock godoc
// @Summary Товары на дозаказ
// @Tags products
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /products/low-stock [get]
func (h *ProductHandler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	products, err := h.svc.GetLowStock(r.Context())
	if err != nil {
		log.Error("Ошибка получения товаров на дозаказ", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "could not fetch products")
		return
	}
	helpers.JSON(w, http.StatusOK, products)
}

// Create godoc
// @Summary Создать товар
// @Tags products
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateProductRequest true "Данные товара"
// @Success 201 {object} helpers.Response
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON при создании товара", zap.Error(err))
		helpers.Fail(w, http.StatusOK, "invalid request payload")
		return
	}

	if err := validate.Struct(req); err != nil {
		helpers.Fail(w, http.StatusOK, validationReason(err))
		return
	}

	product, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		log.Error("Ошибка создания товара", zap.Error(err), zap.String("product_name", req.Name))
		helpers.Fail(w, http.StatusOK, "could not create product")
		return
	}

	log.Info("Товар создан", zap.Int64("product_id", product.ID))
	helpers.JSON(w, http.StatusCreated, product)
}
