package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoloan-agent/domain"
)

type LoanCalculator interface {
	CalculateLoan(input domain.LoanInput) (domain.LoanResult, error)
}

type LoanHandler struct {
	service LoanCalculator
}

func NewLoanHandler(service LoanCalculator) *LoanHandler {
	return &LoanHandler{service: service}
}

func (h *LoanHandler) CalculateLoan(c *gin.Context) {
	var input domain.LoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.service.CalculateLoan(input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
