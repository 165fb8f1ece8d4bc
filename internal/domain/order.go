package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Shape is the cut outline of a sticker.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// LaminationType is the finish applied when lamination is ordered.
type LaminationType string

const (
	LaminationGloss LaminationType = "gloss"
	LaminationMatt  LaminationType = "matt"
)

// Size holds the dimensions in millimeters. Exactly one variant is populated,
// chosen by the constructor used.
type Size struct {
	shape    Shape
	width    float64
	height   float64
	diameter float64
}

// RectangleSize builds the rectangle variant.
func RectangleSize(width, height float64) Size {
	return Size{shape: ShapeRectangle, width: width, height: height}
}

// CircleSize builds the circle variant.
func CircleSize(diameter float64) Size {
	return Size{shape: ShapeCircle, diameter: diameter}
}

// Shape reports which variant is populated; empty for the zero Size.
func (s Size) Shape() Shape { return s.shape }

// Width is the rectangle width in millimeters, zero for circles.
func (s Size) Width() float64 { return s.width }

// Height is the rectangle height in millimeters, zero for circles.
func (s Size) Height() float64 { return s.height }

// Diameter is the circle diameter in millimeters, zero for rectangles.
func (s Size) Diameter() float64 { return s.diameter }

// IsRectangle reports whether s was built by RectangleSize.
func (s Size) IsRectangle() bool { return s.shape == ShapeRectangle }

// IsCircle reports whether s was built by CircleSize.
func (s Size) IsCircle() bool { return s.shape == ShapeCircle }

// Describe renders the size the way operators read it in notifications.
func (s Size) Describe() string {
	switch s.shape {
	case ShapeRectangle:
		return fmt.Sprintf("Width: %smm, Height: %smm", formatMM(s.width), formatMM(s.height))
	case ShapeCircle:
		return fmt.Sprintf("Diameter: %smm", formatMM(s.diameter))
	default:
		return "N/A"
	}
}

// MarshalJSON emits {width,height} or {diameter}, and null for the zero Size.
func (s Size) MarshalJSON() ([]byte, error) {
	switch s.shape {
	case ShapeRectangle:
		return json.Marshal(struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}{s.width, s.height})
	case ShapeCircle:
		return json.Marshal(struct {
			Diameter float64 `json:"diameter"`
		}{s.diameter})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts exactly one variant and rejects mixed objects.
func (s *Size) UnmarshalJSON(data []byte) error {
	var raw struct {
		Width    *float64 `json:"width"`
		Height   *float64 `json:"height"`
		Diameter *float64 `json:"diameter"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Diameter != nil && raw.Width == nil && raw.Height == nil:
		*s = CircleSize(*raw.Diameter)
	case raw.Diameter == nil && raw.Width != nil && raw.Height != nil:
		*s = RectangleSize(*raw.Width, *raw.Height)
	case raw.Diameter == nil && raw.Width == nil && raw.Height == nil:
		*s = Size{}
	default:
		return errors.New("size must be either {width,height} or {diameter}")
	}
	return nil
}

// Address is the postal shipping address.
type Address struct {
	Country    string `json:"country"`
	Region     string `json:"region"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	PostalCode string `json:"postalCode"`
}

// OneLine joins the address into "street number, postal region, country".
func (a Address) OneLine() string {
	return fmt.Sprintf("%s %s, %s %s, %s", a.Street, a.Number, a.PostalCode, a.Region, a.Country)
}

// Customer carries contact and shipping details.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Artwork references the uploaded design file after it reached the file store.
type Artwork struct {
	FileName     string `json:"fileName"`
	FileSize     int64  `json:"fileSize"`
	ContentType  string `json:"contentType"`
	DetectedType string `json:"detectedType,omitempty"`
	Path         string `json:"savedFilePath"`
}

// OrderSpec is validated form input, ready to become an Order once the artwork is stored.
type OrderSpec struct {
	Shape          Shape
	Size           Size
	Lamination     bool
	LaminationType *LaminationType
	Quantity       int
	Customer       Customer
}

// Order is a single immutable submission snapshot.
type Order struct {
	OrderID        string          `json:"orderId"`
	Shape          Shape           `json:"shape"`
	Size           Size            `json:"size"`
	Lamination     bool            `json:"lamination"`
	LaminationType *LaminationType `json:"laminationType"`
	Quantity       int             `json:"quantity"`
	Artwork        Artwork         `json:"artwork"`
	Customer       Customer        `json:"customer"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewOrder builds the Order. LaminationType is dropped when lamination is off.
func NewOrder(spec OrderSpec, artwork Artwork, id string, now time.Time) Order {
	var lt *LaminationType
	if spec.Lamination && spec.LaminationType != nil {
		v := *spec.LaminationType
		lt = &v
	}
	return Order{
		OrderID:        id,
		Shape:          spec.Shape,
		Size:           spec.Size,
		Lamination:     spec.Lamination,
		LaminationType: lt,
		Quantity:       spec.Quantity,
		Artwork:        artwork,
		Customer:       spec.Customer,
		CreatedAt:      now.UTC(),
	}
}

// LaminationLabel is "No" or "Yes (<type>)".
func (o Order) LaminationLabel() string {
	if !o.Lamination || o.LaminationType == nil {
		return "No"
	}
	return fmt.Sprintf("Yes (%s)", *o.LaminationType)
}

func formatMM(v float64) string {
	return fmt.Sprintf("%g", v)
}
