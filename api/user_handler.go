package api

import (
	"net/http"

	"trenchwars/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user lookup requests
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser handles GET /api/users/:wallet
func (h *UserHandler) GetUser(ctx *gin.Context) {
	wallet := ctx.Param("wallet")
	if wallet == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	user, err := h.userService.GetOrCreateUser(ctx.Request.Context(), wallet)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// GetUserStats handles GET /api/users/:wallet/stats
func (h *UserHandler) GetUserStats(ctx *gin.Context) {
	wallet := ctx.Param("wallet")
	if wallet == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	stats, err := h.userService.GetUserStats(ctx.Request.Context(), wallet)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
