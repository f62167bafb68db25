// Package apierror maps ledger errors to HTTP responses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Status returns the HTTP status code for err.
func Status(err error) int {
	if errors.Is(err, domain.ErrDuplicateIBAN) {
		return http.StatusConflict
	}

	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConstraint:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Respond writes err with its status code. Internal errors are logged and reported with
// detail instead of their message.
func Respond(gctx *gin.Context, err error, detail string) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Msg(detail)

		res := web.Error(errorspkg.ErrInternal)
		res.Detail = detail
		gctx.JSON(status, res)

		return
	}

	gctx.JSON(status, web.Error(err))
}
