package router

import (
	"database/sql"
	"net/http"

	"shop-api/internal/config"
	"shop-api/internal/handlers"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, cfg config.Config, logger zerolog.Logger) *mux.Router {
	userService := services.NewUserService(db, cfg.BcryptCost, logger)
	authService := services.NewAuthService(db, cfg.JWTSecret, logger)
	catalogService := services.NewCatalogService(db, logger)
	cartService := services.NewCartService(db, logger)
	orderService := services.NewOrderService(db, logger)
	adminService := services.NewAdminService(db, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()
	authenticated := middleware.Authentication(authService, logger)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	protectedAuth := auth.PathPrefix("").Subrouter()
	protectedAuth.Use(authenticated)
	protectedAuth.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	protectedAuth.HandleFunc("/verify", authHandler.Verify).Methods("GET")
	protectedAuth.HandleFunc("/profile", authHandler.Profile).Methods("GET")

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", catalogHandler.ListProducts).Methods("GET")
	products.HandleFunc("/featured", catalogHandler.ListFeatured).Methods("GET")
	products.HandleFunc("/{id:[0-9]+}", catalogHandler.GetProduct).Methods("GET")

	api.HandleFunc("/tags", catalogHandler.ListTags).Methods("GET")

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(authenticated)
	cart.Use(middleware.RequestValidation())
	cart.HandleFunc("", cartHandler.GetCart).Methods("GET")
	cart.HandleFunc("", cartHandler.Clear).Methods("DELETE")
	cart.HandleFunc("/items", cartHandler.AddItem).Methods("POST")
	cart.HandleFunc("/items/{productId}", cartHandler.UpdateItem).Methods("PUT")
	cart.HandleFunc("/items/{productId}", cartHandler.RemoveItem).Methods("DELETE")

	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(authenticated)
	orders.Use(middleware.RequestValidation())
	orders.HandleFunc("", orderHandler.Create).Methods("POST")
	orders.HandleFunc("", orderHandler.List).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authenticated)
	admin.Use(middleware.RequireRole(string(models.RoleAdmin)))
	admin.Use(middleware.RequestValidation())
	admin.HandleFunc("/products", adminHandler.ListProducts).Methods("GET")
	admin.HandleFunc("/products", adminHandler.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", adminHandler.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", adminHandler.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/tags", adminHandler.ListTags).Methods("GET")
	admin.HandleFunc("/tags", adminHandler.CreateTag).Methods("POST")
	admin.HandleFunc("/tags/{id}", adminHandler.DeleteTag).Methods("DELETE")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
