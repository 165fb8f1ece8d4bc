package order

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stickershop/internal/domain"
)

// MaxFileSize is the largest accepted artwork upload.
const MaxFileSize int64 = 10 * 1024 * 1024

// Client-facing validation messages.
const (
	MsgMissingRequired    = "Missing required fields"
	MsgMissingCustomer    = "Missing customer information. Please fill in all required fields."
	MsgInvalidEmail       = "Please enter a valid email address"
	MsgInvalidShape       = "Shape must be rectangle or circle"
	MsgRectangleDims      = "Width and height are required for rectangle shape"
	MsgCircleDims         = "Diameter is required for circle shape"
	MsgDimsNotPositive    = "Dimensions must be positive numbers"
	MsgDimsOutOfRange     = "Dimensions must be between 0.01mm and 99999999.99mm"
	MsgLaminationRequired = "Lamination type is required when lamination is selected"
	MsgLaminationInvalid  = "Lamination type must be gloss or matt"
	MsgQuantityInvalid    = "Quantity must be a positive whole number"
	MsgInvalidFileType    = "Invalid file type. Please upload .png, .jpg, or .tiff files"
	MsgFileTooLarge       = "File size exceeds 10MB limit"
)

const maxDimensionLen = 32

var (
	minDimension = decimal.RequireFromString("0.01")
	maxDimension = decimal.RequireFromString("100000000")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	allowedContentTypes = map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
		"image/tiff": true,
		"image/tif":  true,
	}
	allowedExtensions = map[string]bool{
		"png":  true,
		"jpg":  true,
		"jpeg": true,
		"tiff": true,
		"tif":  true,
	}
)

// Fields are the raw text fields of an order form.
type Fields struct {
	Shape          string `form:"shape"`
	Lamination     string `form:"lamination"`
	LaminationType string `form:"laminationType"`
	Quantity       string `form:"quantity"`
	Width          string `form:"width"`
	Height         string `form:"height"`
	Diameter       string `form:"diameter"`
	CustomerName   string `form:"customerName"`
	CustomerEmail  string `form:"customerEmail"`
	CustomerPhone  string `form:"customerPhone"`
	Country        string `form:"country"`
	Region         string `form:"region"`
	Street         string `form:"street"`
	Number         string `form:"number"`
	PostalCode     string `form:"postalCode"`
}

// FileInfo is what the validator needs to know about the uploaded file.
type FileInfo struct {
	Name        string
	ContentType string
	Size        int64
}

// ValidateOptions switches between the form variants.
type ValidateOptions struct {
	RequireEmail bool
}

type draft struct {
	in   Fields
	file *FileInfo
	opts ValidateOptions
	spec domain.OrderSpec
}

type rule struct {
	name  string
	check func(d *draft) string
}

// rules run in this exact order; the first failing one decides the message.
var rules = []rule{
	{"required", checkRequired},
	{"customer", checkCustomer},
	{"email", checkEmail},
	{"dimensions", checkDimensions},
	{"lamination", checkLamination},
	{"quantity", checkQuantity},
	{"fileType", checkFileType},
	{"fileSize", checkFileSize},
}

// Validate maps raw form input to an OrderSpec, or returns the first failing
// rule as a *domain.ValidationError.
func Validate(in Fields, file *FileInfo, opts ValidateOptions) (domain.OrderSpec, error) {
	d := &draft{in: trimFields(in), file: file, opts: opts}
	for _, r := range rules {
		if msg := r.check(d); msg != "" {
			return domain.OrderSpec{}, &domain.ValidationError{Rule: r.name, Message: msg}
		}
	}
	return d.spec, nil
}

func checkRequired(d *draft) string {
	if d.in.Shape == "" || d.in.Quantity == "" || d.file == nil {
		return MsgMissingRequired
	}
	return ""
}

func checkCustomer(d *draft) string {
	in := d.in
	if anyEmpty(in.CustomerName, in.CustomerPhone, in.Country, in.Region, in.Street, in.Number, in.PostalCode) {
		return MsgMissingCustomer
	}
	if d.opts.RequireEmail && in.CustomerEmail == "" {
		return MsgMissingCustomer
	}
	d.spec.Customer = domain.Customer{
		Name:  in.CustomerName,
		Email: in.CustomerEmail,
		Phone: in.CustomerPhone,
		Address: domain.Address{
			Country:    in.Country,
			Region:     in.Region,
			Street:     in.Street,
			Number:     in.Number,
			PostalCode: in.PostalCode,
		},
	}
	return ""
}

func checkEmail(d *draft) string {
	if d.opts.RequireEmail && !emailPattern.MatchString(d.in.CustomerEmail) {
		return MsgInvalidEmail
	}
	return ""
}

func checkDimensions(d *draft) string {
	switch domain.Shape(strings.ToLower(d.in.Shape)) {
	case domain.ShapeRectangle:
		if d.in.Width == "" || d.in.Height == "" {
			return MsgRectangleDims
		}
		w, msg := dimension(d.in.Width)
		if msg != "" {
			return msg
		}
		h, msg := dimension(d.in.Height)
		if msg != "" {
			return msg
		}
		d.spec.Shape = domain.ShapeRectangle
		d.spec.Size = domain.RectangleSize(w, h)
	case domain.ShapeCircle:
		if d.in.Diameter == "" {
			return MsgCircleDims
		}
		dia, msg := dimension(d.in.Diameter)
		if msg != "" {
			return msg
		}
		d.spec.Shape = domain.ShapeCircle
		d.spec.Size = domain.CircleSize(dia)
	default:
		return MsgInvalidShape
	}
	return ""
}

func checkLamination(d *draft) string {
	if !strings.EqualFold(d.in.Lamination, "yes") {
		d.spec.Lamination = false
		d.spec.LaminationType = nil
		return ""
	}
	if d.in.LaminationType == "" {
		return MsgLaminationRequired
	}
	lt := domain.LaminationType(strings.ToLower(d.in.LaminationType))
	if lt != domain.LaminationGloss && lt != domain.LaminationMatt {
		return MsgLaminationInvalid
	}
	d.spec.Lamination = true
	d.spec.LaminationType = &lt
	return ""
}

func checkQuantity(d *draft) string {
	q, err := strconv.Atoi(d.in.Quantity)
	if err != nil || q <= 0 || q > math.MaxInt32 {
		return MsgQuantityInvalid
	}
	d.spec.Quantity = q
	return ""
}

func checkFileType(d *draft) string {
	ct := strings.ToLower(strings.TrimSpace(d.file.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if allowedContentTypes[ct] || allowedExtensions[Extension(d.file.Name)] {
		return ""
	}
	return MsgInvalidFileType
}

func checkFileSize(d *draft) string {
	if d.file.Size > MaxFileSize {
		return MsgFileTooLarge
	}
	return ""
}

// Extension returns the lower-cased text after the last dot of name, or the
// whole name when it has no dot.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// dimension parses a millimeter value that must fit NUMERIC(10,2).
// It is rounded to two decimals so the order matches the stored row.
func dimension(raw string) (float64, string) {
	if len(raw) > maxDimensionLen {
		return 0, MsgDimsOutOfRange
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || !v.IsPositive() {
		return 0, MsgDimsNotPositive
	}
	// bound the exponent before any rescaling arithmetic
	if exp := v.Exponent(); exp < -maxDimensionLen || exp > maxDimensionLen {
		return 0, MsgDimsOutOfRange
	}
	v = v.Round(2)
	if v.LessThan(minDimension) || v.GreaterThanOrEqual(maxDimension) {
		return 0, MsgDimsOutOfRange
	}
	return v.InexactFloat64(), ""
}

func anyEmpty(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

func trimFields(in Fields) Fields {
	for _, p := range []*string{
		&in.Shape, &in.Lamination, &in.LaminationType, &in.Quantity, &in.Width, &in.Height, &in.Diameter,
		&in.CustomerName, &in.CustomerEmail, &in.CustomerPhone,
		&in.Country, &in.Region, &in.Street, &in.Number, &in.PostalCode,
	} {
		*p = strings.TrimSpace(*p)
	}
	return in
}
