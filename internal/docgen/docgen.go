// Package docgen generates purchase order documents for suppliers. Input
// is validated in full before anything touches the filesystem: a malformed
// line item aborts the request with an error naming the offending field and
// performs no write. Rendering produces a LaTeX source file; converting it
// to PDF is an external concern (the .tex artifact is what gets attached
// to the outbound supplier mail).
package docgen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iabhiroop/go-procure-backend/internal/services"
)

// LineItem is one row of a purchase order.
type LineItem struct {
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	UOM         string  `json:"uom,omitempty"`
	Urgency     string  `json:"urgency,omitempty"`
}

// Total returns the extended price for the line.
func (li LineItem) Total() float64 { return li.Quantity * li.UnitPrice }

// Request describes the purchase order document to generate.
type Request struct {
	SupplierName        string     `json:"supplier_name"`
	Items               []LineItem `json:"items"`
	DeliveryDate        string     `json:"delivery_date,omitempty"`
	DeliveryAddress     string     `json:"delivery_address,omitempty"`
	ContactPerson       string     `json:"contact_person,omitempty"`
	ContactEmail        string     `json:"contact_email,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	PONumber            string     `json:"po_number,omitempty"`
}

// Result reports the generated document.
type Result struct {
	PONumber   string  `json:"po_number"`
	Path       string  `json:"path"`
	ItemsCount int     `json:"items_count"`
	Total      float64 `json:"total"`
}

// Generator renders purchase order documents into OutputDir.
type Generator struct {
	OutputDir string

	now  func() time.Time
	rand func(n int) int
}

// New constructs a Generator writing into outputDir.
func New(outputDir string) *Generator {
	return &Generator{
		OutputDir: outputDir,
		now:       func() time.Time { return time.Now().UTC() },
		rand:      rand.Intn,
	}
}

// Validate checks the request without side effects. Required per item:
// item_code, description, quantity, unit_price; quantity and unit_price
// must be positive.
func (g *Generator) Validate(req *Request) error {
	if strings.TrimSpace(req.SupplierName) == "" {
		return &services.ValidationError{Field: "supplier_name"}
	}
	if len(req.Items) == 0 {
		return &services.ValidationError{Field: "items", Reason: "items list cannot be empty"}
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if strings.TrimSpace(item.ItemCode) == "" {
			return &services.ValidationError{Field: prefix + "item_code"}
		}
		if strings.TrimSpace(item.Description) == "" {
			return &services.ValidationError{Field: prefix + "description"}
		}
		if item.Quantity <= 0 {
			return &services.ValidationError{Field: prefix + "quantity", Reason: "must be positive"}
		}
		if item.UnitPrice <= 0 {
			return &services.ValidationError{Field: prefix + "unit_price", Reason: "must be positive"}
		}
	}
	return nil
}

// Generate validates req, renders the LaTeX source, and writes it to
// "<OutputDir>/<po_number>.tex". Validation failures abort before any
// filesystem access.
func (g *Generator) Generate(req *Request) (*Result, error) {
	if err := g.Validate(req); err != nil {
		return nil, err
	}

	poNumber := req.PONumber
	if poNumber == "" {
		poNumber = fmt.Sprintf("PO-%s-%04d", g.now().Format("20060102"), 1000+g.rand(9000))
	}

	var total float64
	for _, item := range req.Items {
		total += item.Total()
	}

	content, err := render(req, poNumber, total, g.now())
	if err != nil {
		return nil, fmt.Errorf("render purchase order: %w", err)
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(g.OutputDir, poNumber+".tex")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}

	return &Result{
		PONumber:   poNumber,
		Path:       path,
		ItemsCount: len(req.Items),
		Total:      total,
	}, nil
}

// templateData is the fully escaped model handed to the LaTeX template.
type templateData struct {
	PONumber            string
	Date                string
	SupplierName        string
	ContactPerson       string
	ContactEmail        string
	DeliveryDate        string
	DeliveryAddress     string
	SpecialInstructions string
	Items               []templateItem
	Total               string
}

type templateItem struct {
	ItemCode    string
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
	UOM         string
}

func render(req *Request, poNumber string, total float64, now time.Time) (string, error) {
	titler := cases.Title(language.English)
	data := templateData{
		PONumber:            escapeLatex(poNumber),
		Date:                now.Format("2006-01-02"),
		SupplierName:        escapeLatex(titler.String(strings.ToLower(req.SupplierName))),
		ContactPerson:       escapeLatex(req.ContactPerson),
		ContactEmail:        escapeLatex(req.ContactEmail),
		DeliveryDate:        escapeLatex(req.DeliveryDate),
		DeliveryAddress:     escapeLatex(req.DeliveryAddress),
		SpecialInstructions: escapeLatex(req.SpecialInstructions),
		Total:               fmt.Sprintf("%.2f", total),
	}
	for _, item := range req.Items {
		uom := item.UOM
		if uom == "" {
			uom = "pcs"
		}
		data.Items = append(data.Items, templateItem{
			ItemCode:    escapeLatex(item.ItemCode),
			Description: escapeLatex(item.Description),
			Quantity:    fmt.Sprintf("%g", item.Quantity),
			UnitPrice:   fmt.Sprintf("%.2f", item.UnitPrice),
			Total:       fmt.Sprintf("%.2f", item.Total()),
			UOM:         escapeLatex(uom),
		})
	}

	var sb strings.Builder
	if err := poTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// latexReplacer escapes characters LaTeX treats specially.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func escapeLatex(s string) string { return latexReplacer.Replace(s) }

var poTemplate = template.Must(template.New("po").Parse(`\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{booktabs}
\usepackage{longtable}
\begin{document}

\begin{center}
{\LARGE \textbf{Purchase Order}}\\[4pt]
{\large {{.PONumber}}}
\end{center}

\noindent\textbf{Date:} {{.Date}}\\
\textbf{Supplier:} {{.SupplierName}}\\
{{- if .ContactPerson}}
\textbf{Contact:} {{.ContactPerson}}{{if .ContactEmail}} ({{.ContactEmail}}){{end}}\\
{{- end}}
{{- if .DeliveryDate}}
\textbf{Requested Delivery:} {{.DeliveryDate}}\\
{{- end}}
{{- if .DeliveryAddress}}
\textbf{Deliver To:} {{.DeliveryAddress}}\\
{{- end}}

\begin{longtable}{llrrrr}
\toprule
Item Code & Description & Qty & UOM & Unit Price & Total \\
\midrule
{{- range .Items}}
{{.ItemCode}} & {{.Description}} & {{.Quantity}} & {{.UOM}} & {{.UnitPrice}} & {{.Total}} \\
{{- end}}
\midrule
\multicolumn{5}{r}{\textbf{Grand Total}} & \textbf{ {{- .Total -}} } \\
\bottomrule
\end{longtable}

{{- if .SpecialInstructions}}

\noindent\textbf{Special Instructions:} {{.SpecialInstructions}}
{{- end}}

\end{document}
`))
