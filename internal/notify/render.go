package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"stickershop/internal/domain"
)

const dateLayout = "2006-01-02 15:04:05 MST"

var funcs = map[string]any{"orNA": orNA}

var textTmpl = texttemplate.Must(texttemplate.New("order.txt").Funcs(funcs).Parse(`New Sticker Order Received

Order ID: {{.OrderID}}
Date: {{.Date}}

Customer Information:
- Name: {{orNA .Customer.Name}}
- Email: {{orNA .Customer.Email}}
- Phone: {{orNA .Customer.Phone}}
- Address: {{orNA .Address}}

Order Details:
- Shape: {{.Shape}}
- Size: {{.Size}}
- Lamination: {{.Lamination}}
- Quantity: {{.Quantity}}
- File Name: {{.FileName}}
- File Size: {{.FileSizeKB}} KB

The design file has been saved to: {{.Path}}

Please process this order accordingly.`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("order.html").Funcs(funcs).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #6366f1;">New Sticker Order Received</h2>
  <div style="background: #f9fafb; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
  </div>
  <h3 style="color: #1f2937; margin-top: 30px;">Customer Information:</h3>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 10px; font-weight: bold;">Name:</td><td style="padding: 10px;">{{orNA .Customer.Name}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Email:</td><td style="padding: 10px;">{{orNA .Customer.Email}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Phone:</td><td style="padding: 10px;">{{orNA .Customer.Phone}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Country:</td><td style="padding: 10px;">{{orNA .Customer.Address.Country}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Region/State:</td><td style="padding: 10px;">{{orNA .Customer.Address.Region}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Street:</td><td style="padding: 10px;">{{orNA .Customer.Address.Street}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Number:</td><td style="padding: 10px;">{{orNA .Customer.Address.Number}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Postal Code:</td><td style="padding: 10px;">{{orNA .Customer.Address.PostalCode}}</td></tr>
  </table>
  <h3 style="color: #1f2937; margin-top: 30px;">Order Details:</h3>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 10px; font-weight: bold;">Shape:</td><td style="padding: 10px;">{{.Shape}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Size:</td><td style="padding: 10px;">{{.Size}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Lamination:</td><td style="padding: 10px;">{{.Lamination}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Quantity:</td><td style="padding: 10px;">{{.Quantity}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">File Name:</td><td style="padding: 10px;">{{.FileName}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">File Size:</td><td style="padding: 10px;">{{.FileSizeKB}} KB</td></tr>
  </table>
  <p style="color: #6b7280; font-size: 14px; margin-top: 20px;">The design file "{{.FileName}}" is attached to this email.</p>
  <p style="color: #6b7280; font-size: 14px; margin-top: 10px;">File location: <code style="background: #f3f4f6; padding: 2px 6px; border-radius: 4px;">{{.Path}}</code></p>
  <p style="margin-top: 30px; color: #6b7280;">Please process this order accordingly.</p>
</div>`))

type view struct {
	OrderID    string
	Date       string
	Customer   domain.Customer
	Address    string
	Shape      domain.Shape
	Size       string
	Lamination string
	Quantity   int
	FileName   string
	FileSizeKB string
	Path       string
}

func newView(o domain.Order) view {
	return view{
		OrderID:    o.OrderID,
		Date:       o.CreatedAt.UTC().Format(dateLayout),
		Customer:   o.Customer,
		Address:    addressLine(o.Customer.Address),
		Shape:      o.Shape,
		Size:       o.Size.Describe(),
		Lamination: o.LaminationLabel(),
		Quantity:   o.Quantity,
		FileName:   o.Artwork.FileName,
		FileSizeKB: FileSizeKB(o.Artwork.FileSize),
		Path:       o.Artwork.Path,
	}
}

// Subject builds "<prefix> New Order - <order id>".
func Subject(prefix, orderID string) string {
	return strings.TrimSpace(fmt.Sprintf("%s New Order - %s", prefix, orderID))
}

// RenderText renders the plain-text body.
func RenderText(o domain.Order) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, newView(o)); err != nil {
		return "", fmt.Errorf("render text body: %w", err)
	}
	return buf.String(), nil
}

// RenderHTML renders the HTML body. Customer input is escaped.
func RenderHTML(o domain.Order) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, newView(o)); err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return buf.String(), nil
}

// FileSizeKB formats a byte count as kilobytes with two decimals.
func FileSizeKB(size int64) string {
	return decimal.NewFromInt(size).Div(decimal.NewFromInt(1024)).StringFixed(2)
}

func addressLine(a domain.Address) string {
	if a == (domain.Address{}) {
		return ""
	}
	return a.OneLine()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
