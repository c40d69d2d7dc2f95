package routes

import (
	"github.com/POS-Ninjas/backend/internal/handlers"
	"github.com/POS-Ninjas/backend/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	resetHandler *handlers.PasswordResetHandler,
	productHandler *handlers.ProductHandler,
	supplierHandler *handlers.SupplierHandler,
	auditHandler *handlers.AuditHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// --- Публичные маршруты ---
	router.HandleFunc("/users/signup", authHandler.Signup).Methods("POST")
	router.HandleFunc("/users/login", authHandler.Login).Methods("POST")

	router.HandleFunc("/reset-password", resetHandler.RequestReset).Methods("POST")
	router.HandleFunc("/reset-password/{token}", resetHandler.RedeemReset).Methods("POST")

	router.HandleFunc("/products/all", productHandler.GetAll).Methods("GET")
	router.HandleFunc("/products/barcode/{barcode}", productHandler.GetByBarcode).Methods("GET")
	router.HandleFunc("/suppliers/all", supplierHandler.GetAll).Methods("GET")
	router.HandleFunc("/suppliers/active", supplierHandler.GetActive).Methods("GET")
	router.HandleFunc("/suppliers", supplierHandler.Search).Methods("GET")

	// --- Защищённые JWT ---
	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/users/active", authHandler.GetActiveUsers).Methods("GET")
	protected.HandleFunc("/products/low-stock", productHandler.GetLowStock).Methods("GET")
	protected.HandleFunc("/products/{id:[0-9]+}", productHandler.GetByID).Methods("GET")

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))
	admin.HandleFunc("/users/{username}", authHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/products", productHandler.Create).Methods("POST")
	admin.HandleFunc("/suppliers", supplierHandler.Create).Methods("POST")
	admin.HandleFunc("/suppliers/{id:[0-9]+}", supplierHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/audit/{user_id:[0-9]+}", auditHandler.ListByUser).Methods("GET")
}
