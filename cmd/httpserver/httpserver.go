// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountpolicy"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/authdelivery"
	"github.com/go-petr/pet-ledger/internal/authservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/internal/transferdelivery"
	"github.com/go-petr/pet-ledger/internal/transferservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
)

// Server holds the store, handlers router and configuration.
type Server struct {
	Store  store.Store
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(st store.Store, logger zerolog.Logger, config configpkg.Config, publisher eventpkg.Publisher) (*Server, error) {
	authService, err := authservice.New(config)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	policy := accountpolicy.New(config.MaxAccounts, config.BaseIBAN)

	transactionService := transactionservice.New(st, publisher)
	accountService := accountservice.New(st, policy, publisher)
	transferService := transferservice.New(st, transactionService, publisher)

	authHandler := authdelivery.NewHandler(authService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	transferHandler := transferdelivery.NewHandler(transferService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("iban", accountdelivery.ValidIBAN); err != nil {
			return nil, errors.New("cannot register iban validator")
		}

		if err := v.RegisterValidation("category", transactiondelivery.ValidCategory); err != nil {
			return nil, errors.New("cannot register category validator")
		}
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.POST("/tokens", authHandler.Login)

	authRoutes := api.Group("/").Use(middleware.AuthMiddleware(authService.TokenMaker))

	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/balances", accountHandler.Balances)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.PATCH("/accounts/:id", accountHandler.Update)
	authRoutes.DELETE("/accounts/:id", accountHandler.Delete)

	authRoutes.GET("/accounts/:id/transactions", transactionHandler.List)
	authRoutes.POST("/accounts/:id/transactions", transactionHandler.Create)
	authRoutes.GET("/accounts/:id/transactions.csv", transactionHandler.Export)
	authRoutes.GET("/accounts/:id/summary", transactionHandler.Summary)
	authRoutes.GET("/transactions/:id", transactionHandler.Get)

	authRoutes.POST("/accounts/:id/transfers", transferHandler.Create)

	server := &Server{
		Store:  st,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
