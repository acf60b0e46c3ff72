package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce json
// @Success 200 {object} dto.Envelope
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.Success("OK", gin.H{"service": "bank-backoffice-api"}))
}
