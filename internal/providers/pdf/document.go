package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/render"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateDocument(ctx context.Context, input render.RenderInput) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, input.DocumentKind, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, input.ClinicName, props.Text{
			Size:  11,
			Align: align.Right,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New(input.DocumentKind+" number: "+input.DocumentNumber, props.Text{Top: 0}),
			text.New("Date: "+input.Date.UTC().Format("2006-01-02"), props.Text{Top: 5}),
			text.New("Patient: "+input.PatientName, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Branch: "+input.BranchID, props.Text{Top: 0}),
		),
	)

	if len(input.Items) > 0 {
		m.AddRow(10,
			text.NewCol(9, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, item := range input.Items {
			m.AddRow(8,
				text.NewCol(9, item.Description, props.Text{Size: 9}),
				text.NewCol(3, money.Format(item.Price, input.Currency), props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, money.Format(input.Subtotal, input.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	if input.Tax != 0 {
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, "Tax", props.Text{Size: 9}),
			text.NewCol(2, money.Format(input.Tax, input.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money.Format(input.Total, input.Currency), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Amount paid", props.Text{Size: 9}),
		text.NewCol(2, money.Format(input.AmountPaid, input.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Balance due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money.Format(input.BalanceDue, input.Currency), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if input.PaymentMethod != "" {
		m.AddRow(8,
			col.New(7),
			text.NewCol(5, "Paid via "+input.PaymentMethod, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
