package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req billingdomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.billingSvc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	item, err := s.billingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListInvoices(c *gin.Context) {
	req, err := parseListInvoicesRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.billingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListPatientInvoices(c *gin.Context) {
	patientID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_patient_id", "invalid patient id"))
		return
	}

	req, err := parseListInvoicesRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.PatientID = &patientID

	items, err := s.billingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) UpdateInvoiceItems(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req billingdomain.UpdateInvoiceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.InvoiceID = id

	item, err := s.billingSvc.UpdateInvoiceItems(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func parseListInvoicesRequest(c *gin.Context) (billingdomain.ListInvoicesRequest, error) {
	var req billingdomain.ListInvoicesRequest

	if raw := strings.TrimSpace(c.Query("patient_id")); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil {
			return req, newValidationError("patient_id", "invalid_patient_id", "invalid patient id")
		}
		req.PatientID = &patientID
	}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := billingdomain.InvoiceStatus(strings.ToUpper(raw))
		switch status {
		case billingdomain.InvoiceStatusPending,
			billingdomain.InvoiceStatusPartiallyPaid,
			billingdomain.InvoiceStatusPaid,
			billingdomain.InvoiceStatusOverdue:
			req.Status = &status
		default:
			return req, newValidationError("status", "invalid_status", "invalid status")
		}
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		recordType := billingdomain.RecordType(strings.ToUpper(raw))
		switch recordType {
		case billingdomain.RecordTypeInvoice, billingdomain.RecordTypeReceipt:
			req.Type = &recordType
		default:
			return req, newValidationError("type", "invalid_type", "invalid type")
		}
	}

	return req, nil
}
