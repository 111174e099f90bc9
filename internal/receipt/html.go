package receipt

import (
	"html/template"
	"io"
)

var funcs = template.FuncMap{
	"money":    Money,
	"quantity": Quantity,
	"date":     func(r *Receipt) string { return r.Date.Format("02/01/2006 15:04") },
	"due":      func(r *Receipt) string { return r.DueDate.Format("02/01/2006") },
}

var page = template.Must(template.New("receipt").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Receipt.Title}} {{.Receipt.SaleNumber}}</title>
<style>
  @page { size: {{.Printer.Width}} auto; margin: {{.Printer.Margin}}; }
  body { width: {{.Printer.Width}}; margin: 0 auto; font-family: 'Courier New', monospace; font-size: {{.Printer.FontSize}}; line-height: {{.Printer.LineHeight}}; }
  .center { text-align: center; }
  .store-name { font-weight: bold; font-size: 1.3em; }
  .document-title { font-weight: bold; margin: 4px 0; }
  .row { display: flex; justify-content: space-between; }
  .item-name { font-weight: bold; }
  .section-title { font-weight: bold; margin-top: 6px; }
  .rule { border-top: 1px dashed #000; margin: 6px 0; }
  .total { font-weight: bold; }
  .due { color: #d00; font-weight: bold; }
</style>
</head>
<body>
<div class="center">
  <div class="store-name">{{.Store.Name}}</div>
  {{with .Store.Address}}<div>{{.}}</div>{{end}}
  {{with .Store.Phone}}<div>{{.}}</div>{{end}}
  <div class="document-title">{{.Receipt.Title}}</div>
  <div>{{date .Receipt}}</div>
</div>
<div class="rule"></div>
<div class="row"><span>Sale No:</span><span>{{.Receipt.SaleNumber}}</span></div>
<div class="row"><span>Status:</span><span>{{.Receipt.Status}}</span></div>
<div class="row"><span>Customer:</span><span>{{.Receipt.Customer}}</span></div>
{{with .Receipt.CustomerPhone}}<div class="row"><span>Phone:</span><span>{{.}}</span></div>{{end}}
<div class="row"><span>Cashier:</span><span>{{.Receipt.Cashier}}</span></div>
<div class="row"><span>Payment:</span><span>{{.Receipt.PaymentStatus}}</span></div>
<div class="rule"></div>
{{range .Receipt.Items}}
<div class="sale-item">
  <div class="item-name">{{.Name}}</div>
  <div class="row"><span>{{quantity .Quantity}} {{.UnitName}} x {{money .UnitPrice}}</span><span>{{money .Total}}</span></div>
</div>
{{else}}
<div class="center">No items</div>
{{end}}
{{with .Receipt.Packaging}}
<div class="section-title">Packaging</div>
{{range .}}
<div class="packaging-item">
  <div class="item-name">{{.Name}} ({{.Status}})</div>
  <div class="row"><span>{{quantity .Quantity}} x {{money .UnitPrice}}</span><span>{{money .Total}}</span></div>
</div>
{{end}}
{{end}}
<div class="rule"></div>
<div class="row"><span>Subtotal:</span><span>{{money .Receipt.Subtotal}}</span></div>
<div class="row"><span>Tax incl.:</span><span>{{money .Receipt.Tax}}</span></div>
<div class="row total"><span>Total:</span><span>{{money .Receipt.Total}}</span></div>
{{if .Receipt.Packaging}}<div class="row"><span>Packaging:</span><span>{{money .Receipt.PackagingTotal}}</span></div>{{end}}
<div class="row"><span>Paid:</span><span>{{money .Receipt.Paid}}</span></div>
{{if .Receipt.HasBalance}}
<div class="row due"><span>Remaining:</span><span>{{money .Receipt.Remaining}}</span></div>
<div class="row due"><span>Due date:</span><span>{{due .Receipt}}</span></div>
{{end}}
<div class="rule"></div>
<div class="center">
  <div>Thank you!</div>
  <div>Print id: {{.Receipt.PrintID}}</div>
</div>
</body>
</html>
`))

// RenderHTML writes r as a standalone HTML page laid out for p.
func RenderHTML(w io.Writer, r *Receipt, store Store, p Printer) error {
	return page.Execute(w, struct {
		Receipt *Receipt
		Store   Store
		Printer Printer
	}{r, store, p})
}
