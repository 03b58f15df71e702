package server

import (
	"context"
	"net/http"

	auditdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit/domain"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/config"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/providers/pdf"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/render"
	statementdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/statement/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(render.NewRenderer),
	pdf.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())
	return r
}

type ServerParam struct {
	fx.In

	Log          *zap.Logger
	Config       config.Config
	BillingSvc   billingdomain.Service
	PatientSvc   patientdomain.Service
	StatementSvc statementdomain.Service
	AuditSvc     auditdomain.Service
	Renderer     render.Renderer
	PDFProvider  pdf.Provider
}

type Server struct {
	log          *zap.Logger
	cfg          config.Config
	billingSvc   billingdomain.Service
	patientSvc   patientdomain.Service
	statementSvc statementdomain.Service
	auditSvc     auditdomain.Service
	renderer     render.Renderer
	pdfProvider  pdf.Provider
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:          p.Log.Named("http.server"),
		cfg:          p.Config,
		billingSvc:   p.BillingSvc,
		patientSvc:   p.PatientSvc,
		statementSvc: p.StatementSvc,
		auditSvc:     p.AuditSvc,
		renderer:     p.Renderer,
		pdfProvider:  p.PDFProvider,
	}
}

func registerRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/invoices", s.CreateInvoice)
		v1.GET("/invoices", s.ListInvoices)
		v1.GET("/invoices/:id", s.GetInvoiceByID)
		v1.PATCH("/invoices/:id/items", s.UpdateInvoiceItems)

		v1.POST("/payments", s.FinalizePayment)

		v1.POST("/patients", s.CreatePatient)
		v1.GET("/patients", s.ListPatients)
		v1.GET("/patients/:id", s.GetPatientByID)
		v1.GET("/patients/:id/invoices", s.ListPatientInvoices)
		v1.GET("/patients/:id/statement", s.GetPatientStatement)

		v1.GET("/documents/:id/html", s.RenderDocumentHTML)
		v1.GET("/documents/:id/pdf", s.RenderDocumentPDF)

		v1.GET("/audit-logs", s.ListAuditLogs)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
