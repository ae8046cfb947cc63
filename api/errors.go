package api

import (
	"errors"
	"net/http"
	"strings"

	"trenchwars/models"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP status codes. Conflicting state
// transitions are 409, impossible-to-honor states 422, everything that looks
// like bad input 400, missing entities 404, the rest 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAlreadySettled),
		errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrDuplicateTransaction),
		errors.Is(err, models.ErrBettingClosed):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDegeneratePool),
		errors.Is(err, models.ErrInvalidStartPrice),
		errors.Is(err, models.ErrTieVoided):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrWarNotEnded):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrWarNotSettled):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case strings.Contains(err.Error(), "not found"):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isValidationError(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"must be",
		"cannot be",
		"invalid",
		"required",
		"below",
		"needs two different",
		"already registered",
		"does not belong",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
