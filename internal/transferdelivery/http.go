// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/apierror"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transferservice"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type uriRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type request struct {
	RecipientID    int32      `json:"recipient_id" binding:"omitempty,min=1"`
	RecipientLabel string     `json:"recipient"`
	Description    string     `json:"description"`
	Amount         string     `json:"amount" binding:"required"`
	BookedAt       *time.Time `json:"booked_at"`
}

type data struct {
	Transfer domain.TransferResult `json:"transfer"`
}

// Create handles http request to transfer money from the account in the path.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	arg := domain.CreateTransferParams{
		SenderID:       uri.ID,
		RecipientID:    req.RecipientID,
		RecipientLabel: req.RecipientLabel,
		Description:    req.Description,
		Amount:         req.Amount,
		BookedAt:       req.BookedAt,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		apierror.Respond(gctx, err, transferservice.MsgTransferError)
		return
	}

	gctx.JSON(http.StatusCreated, web.Success(transferservice.MsgTransferred, data{result}))
}
