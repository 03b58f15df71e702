// Package pdf exports billing documents as PDF via maroto.
package pdf

import (
	"context"
	"io"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/render"
	"go.uber.org/fx"
)

// Module provides the PDF exporter.
var Module = fx.Provide(New)

type Provider interface {
	GenerateDocument(ctx context.Context, input render.RenderInput) (io.Reader, error)
}
