package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.DocumentKind}} {{.DocumentNumber}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      color: #1a1f36;
      background: #f7f9fc;
    }
    .document-card {
      background: #ffffff;
      max-width: 720px;
      margin: 0 auto;
      padding: 56px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header h1 { margin: 0; font-size: 24px; font-weight: 700; }
    .clinic { text-align: right; font-weight: 600; color: #8792a2; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value { font-size: 14px; line-height: 1.5; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 40px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
    }
    td { padding: 14px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; }
    .td-right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 260px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
    }
  </style>
</head>
<body>
  <div class="document-card">
    <div class="header">
      <div>
        <h1>{{.DocumentKind}}</h1>
        <div class="label" style="margin-top: 12px;">{{.DocumentKind}} number</div>
        <div class="value">{{.DocumentNumber}}</div>
      </div>
      <div class="clinic">
        {{.ClinicName}}
        {{if .BranchID}}<br><span class="value">{{.BranchID}}</span>{{end}}
      </div>
    </div>

    <div class="meta-grid">
      <div>
        <div class="label">Patient</div>
        <div class="value"><strong>{{.PatientName}}</strong></div>
      </div>
      <div>
        <div class="label">Date</div>
        <div class="value">{{formatDate .Date}}</div>
        {{if .DueAt}}
        <div class="label" style="margin-top: 16px;">Due</div>
        <div class="value">{{formatDatePtr .DueAt}}</div>
        {{end}}
      </div>
    </div>

    {{if .Items}}
    <table>
      <thead>
        <tr>
          <th style="width: 70%;">Description</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{formatMoney .Price $.Currency}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span>{{formatMoney .Subtotal .Currency}}</span>
      </div>
      {{if .Tax}}
      <div class="total-row">
        <span class="total-label">Tax</span>
        <span>{{formatMoney .Tax .Currency}}</span>
      </div>
      {{end}}
      <div class="total-row total-final">
        <span>Total</span>
        <span>{{formatMoney .Total .Currency}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Amount paid</span>
        <span>{{formatMoney .AmountPaid .Currency}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Balance due</span>
        <span>{{formatMoney .BalanceDue .Currency}}</span>
      </div>
      {{if .PaymentMethod}}
      <div class="total-row">
        <span class="total-label">Paid via</span>
        <span>{{.PaymentMethod}}</span>
      </div>
      {{end}}
    </div>
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":   money.Format,
		"formatDate":    formatDate,
		"formatDatePtr": formatDatePtr,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Funcs(funcs).Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	if input.ClinicName == "" {
		input.ClinicName = "DentaCloud"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}

func formatDatePtr(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatDate(*value)
}
