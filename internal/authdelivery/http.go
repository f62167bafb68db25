// Package authdelivery manages delivery layer of access tokens.
package authdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/authservice"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by auth delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package authdelivery
type Service interface {
	Login(ctx context.Context, clientID, secret string) (authservice.Token, error)
}

// Handler facilitates auth delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns auth handler.
func NewHandler(as Service) *Handler {
	return &Handler{
		service: as,
	}
}

type loginRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

type data struct {
	Token authservice.Token `json:"token"`
}

// Login handles http request to issue an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	token, err := h.service.Login(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Success("", data{token}))
}
