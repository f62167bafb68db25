// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/apierror"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, title string) (domain.Account, error)
	CreateWithIBAN(ctx context.Context, title, iban string) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateTitle(ctx context.Context, id int32, title string) (domain.Account, error)
	Delete(ctx context.Context, id int32) error
	Balances(ctx context.Context) ([]domain.AccountBalance, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

type dataBalances struct {
	Balances []domain.AccountBalance `json:"balances"`
}

type uriRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type createRequest struct {
	Title string `json:"title" binding:"required"`
	IBAN  string `json:"iban" binding:"omitempty,iban"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	var (
		account domain.Account
		err     error
	)

	if req.IBAN == "" {
		account, err = h.service.Create(ctx, req.Title)
	} else {
		account, err = h.service.CreateWithIBAN(ctx, req.Title, req.IBAN)
	}

	if err != nil {
		apierror.Respond(gctx, err, accountservice.MsgCreateError)
		return
	}

	gctx.JSON(http.StatusCreated, web.Success(accountservice.MsgCreated, data{account}))
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		apierror.Respond(gctx, err, "cannot get account")
		return
	}

	gctx.JSON(http.StatusOK, web.Success("", data{account}))
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context())
	if err != nil {
		apierror.Respond(gctx, err, "cannot list accounts")
		return
	}

	gctx.JSON(http.StatusOK, web.Success("", dataAccounts{accounts}))
}

type updateRequest struct {
	Title string `json:"title" binding:"required"`
}

// Update handles http request to change the account title.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	account, err := h.service.UpdateTitle(ctx, uri.ID, req.Title)
	if err != nil {
		apierror.Respond(gctx, err, accountservice.MsgUpdateError)
		return
	}

	gctx.JSON(http.StatusOK, web.Success(accountservice.MsgUpdated, data{account}))
}

// Delete handles http request to delete account with its transactions.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	if err := h.service.Delete(ctx, req.ID); err != nil {
		apierror.Respond(gctx, err, accountservice.MsgDeleteError)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Status: web.StatusSuccess, Detail: accountservice.MsgDeleted})
}

// Balances handles http request to list the current saldo of every account.
func (h *Handler) Balances(gctx *gin.Context) {
	balances, err := h.service.Balances(gctx.Request.Context())
	if err != nil {
		apierror.Respond(gctx, err, "cannot get balances")
		return
	}

	gctx.JSON(http.StatusOK, web.Success("", dataBalances{balances}))
}
