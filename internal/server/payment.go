package server

import (
	"net/http"
	"strings"

	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) FinalizePayment(c *gin.Context) {
	var req billingdomain.FinalizePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.RequestID) == "" {
		AbortWithError(c, newValidationError("request_id", "invalid_request_id", "request id is required"))
		return
	}

	resp, err := s.billingSvc.FinalizePayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
