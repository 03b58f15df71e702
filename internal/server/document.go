package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/render"
	"github.com/gin-gonic/gin"
)

func (s *Server) RenderDocumentHTML(c *gin.Context) {
	input, err := s.buildRenderInput(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	html, err := s.renderer.RenderHTML(input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) RenderDocumentPDF(c *gin.Context) {
	input, err := s.buildRenderInput(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateDocument(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+input.DocumentNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

func (s *Server) buildRenderInput(c *gin.Context) (render.RenderInput, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return render.RenderInput{}, newValidationError("id", "invalid_id", "invalid id")
	}

	doc, err := s.billingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		return render.RenderInput{}, err
	}

	patient, err := s.patientSvc.GetByID(c.Request.Context(), doc.PatientID)
	if err != nil {
		return render.RenderInput{}, err
	}

	return render.BuildInput(doc, patient, s.cfg.Billing.ClinicName), nil
}
