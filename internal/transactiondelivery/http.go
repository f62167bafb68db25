// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/apierror"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/report"
	"github.com/go-petr/pet-ledger/internal/saldo"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// DateLayout is the layout of the start_date and end_date filters.
const DateLayout = "2006-01-02"

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Create(ctx context.Context, accountID int32, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Get(ctx context.Context, id int64) (domain.Transaction, error)
	List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type dataTransactions struct {
	Transactions []domain.Transaction           `json:"transactions"`
	Statistics   transactionservice.Statistics `json:"statistics"`
}

type dataSummary struct {
	Statistics transactionservice.Statistics `json:"statistics"`
	Monthly    []report.Month                `json:"monthly"`
	Categories []report.CategoryTotal        `json:"categories"`
}

type accountURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type transactionURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type listRequest struct {
	StartDate   time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate     time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
	Category    string    `form:"category" binding:"omitempty,category"`
	SearchType  string    `form:"search_type" binding:"omitempty,oneof=Matches Includes"`
	Description string    `form:"description"`
	Limit       int32     `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset      int32     `form:"offset" binding:"omitempty,min=0"`
}

func (r listRequest) params(accountID int32) domain.ListTransactionsParams {
	arg := domain.ListTransactionsParams{
		AccountID:   accountID,
		Category:    r.Category,
		SearchType:  r.SearchType,
		Description: r.Description,
		Limit:       r.Limit,
		Offset:      r.Offset,
	}

	if !r.StartDate.IsZero() {
		start := r.StartDate
		arg.StartDate = &start
	}

	if !r.EndDate.IsZero() {
		end := r.EndDate
		arg.EndDate = &end
	}

	return arg
}

// bindList binds the account id and the filters of a listing request.
func bindList(gctx *gin.Context) (domain.ListTransactionsParams, bool) {
	l := zerolog.Ctx(gctx.Request.Context())

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return domain.ListTransactionsParams{}, false
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return domain.ListTransactionsParams{}, false
	}

	return req.params(uri.ID), true
}

// Create handles http request to create a transaction on an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	var req domain.CreateTransactionParams
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	created, err := h.service.Create(ctx, uri.ID, req)
	if err != nil {
		apierror.Respond(gctx, err, transactionservice.MsgCreateError)
		return
	}

	gctx.JSON(http.StatusCreated, web.Success(transactionservice.MsgCreated, data{created}))
}

// Get handles http request to get a transaction.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri transactionURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	txn, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		apierror.Respond(gctx, err, "cannot get transaction")
		return
	}

	gctx.JSON(http.StatusOK, web.Success("", data{txn}))
}

// List handles http request to list the filtered transactions of an account.
func (h *Handler) List(gctx *gin.Context) {
	arg, ok := bindList(gctx)
	if !ok {
		return
	}

	txns, err := h.service.List(gctx.Request.Context(), arg)
	if err != nil {
		apierror.Respond(gctx, err, "cannot list transactions")
		return
	}

	res := dataTransactions{
		Transactions: txns,
		Statistics:   transactionservice.Summarise(txns),
	}

	gctx.JSON(http.StatusOK, web.Success("", res))
}

// Export handles http request to download the filtered transactions of an account as CSV.
func (h *Handler) Export(gctx *gin.Context) {
	arg, ok := bindList(gctx)
	if !ok {
		return
	}

	txns, err := h.service.List(gctx.Request.Context(), arg)
	if err != nil {
		apierror.Respond(gctx, err, "cannot export transactions")
		return
	}

	saldo.Sort(txns)

	filename := fmt.Sprintf("account-%d-transactions.csv", arg.AccountID)

	gctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	gctx.Header("Content-Type", "text/csv; charset=utf-8")
	gctx.Status(http.StatusOK)

	if err := report.WriteCSV(gctx.Writer, txns); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Msg("cannot write csv")
	}
}

// Summary handles http request to get the chart data of an account.
func (h *Handler) Summary(gctx *gin.Context) {
	arg, ok := bindList(gctx)
	if !ok {
		return
	}

	arg.Limit, arg.Offset = 0, 0

	txns, err := h.service.List(gctx.Request.Context(), arg)
	if err != nil {
		apierror.Respond(gctx, err, "cannot summarise transactions")
		return
	}

	res := dataSummary{
		Statistics: transactionservice.Summarise(txns),
		Monthly:    report.MonthlySummary(txns),
		Categories: report.ExpensesByCategory(txns),
	}

	gctx.JSON(http.StatusOK, web.Success("", res))
}
