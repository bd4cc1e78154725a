package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog/internal/database"
	"blog/internal/integrity"
	"blog/internal/responses"
	"blog/internal/services"
)

var notFoundSentinels = []error{
	services.ErrUserNotFound,
	services.ErrPostNotFound,
	services.ErrCommentNotFound,
	services.ErrTagNotFound,
	services.ErrTagNotAttached,
}

// respondError maps a service failure onto the response envelope: missing
// rows become 404, integrity violations 400, everything else 500 with the
// fallback message. Causes wrapped by an aborted unit of work are unwrapped
// first.
func respondError(c *gin.Context, err error, fallback string) {
	var aborted *database.TransactionAbortedError
	if errors.As(err, &aborted) {
		err = aborted.Cause
	}

	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			responses.Fail(c, http.StatusNotFound, err, sentinel.Error())
			return
		}
	}
	if isIntegrityViolation(err) {
		responses.Fail(c, http.StatusBadRequest, err, err.Error())
		return
	}
	responses.Fail(c, http.StatusInternalServerError, err, fallback)
}

func isIntegrityViolation(err error) bool {
	var (
		unique  *integrity.UniqueViolationError
		fk      *integrity.ForeignKeyViolationError
		notNull *integrity.NotNullViolationError
	)
	return errors.As(err, &unique) || errors.As(err, &fk) || errors.As(err, &notNull)
}
