package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreatePatient(c *gin.Context) {
	var req patientdomain.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.patientSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetPatientByID(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_patient_id", "invalid patient id"))
		return
	}

	item, err := s.patientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListPatients(c *gin.Context) {
	items, err := s.patientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
