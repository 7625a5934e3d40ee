package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoloan-agent/domain"
	"autoloan-agent/service"
)

type BorrowerMatcher interface {
	MatchRaw(raw domain.RawBorrowerProfile) (domain.MatchResult, error)
}

type LenderCatalog interface {
	All() []domain.LenderProduct
	GetByID(id string) (domain.LenderProduct, bool)
}

type MatchHandler struct {
	matcher BorrowerMatcher
	catalog LenderCatalog
}

func NewMatchHandler(matcher BorrowerMatcher, catalog LenderCatalog) *MatchHandler {
	return &MatchHandler{matcher: matcher, catalog: catalog}
}

func (h *MatchHandler) Match(c *gin.Context) {
	var raw domain.RawBorrowerProfile
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.matcher.MatchRaw(raw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MatchHandler) ListLenders(c *gin.Context) {
	lenders := h.catalog.All()
	c.JSON(http.StatusOK, gin.H{
		"items":  lenders,
		"issues": service.ValidateCatalog(lenders),
	})
}

func (h *MatchHandler) GetLender(c *gin.Context) {
	lender, ok := h.catalog.GetByID(c.Param("lenderId"))
	if !ok {
		writeError(c, domain.ErrLenderNotFound)
		return
	}
	c.JSON(http.StatusOK, lender)
}
