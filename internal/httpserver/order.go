package httpserver

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"stickershop/internal/domain"
	ordersvc "stickershop/internal/service/order"
)

// maxOrderBody leaves room for the text fields and multipart framing around
// a maximum-size artwork file.
const maxOrderBody = ordersvc.MaxFileSize + 1<<20

const (
	msgInternal      = "Internal server error. Please try again later."
	msgOrderReceived = "Order received successfully"
	msgInvalidForm   = "Invalid form data"
)

type orderResponse struct {
	Success          bool         `json:"success"`
	OrderID          string       `json:"orderId"`
	PersistenceID    *string      `json:"persistenceId,omitempty"`
	Persisted        bool         `json:"persisted"`
	PersistenceError *string      `json:"persistenceError,omitempty"`
	Message          string       `json:"message"`
	EmailSent        bool         `json:"emailSent"`
	EmailError       *string      `json:"emailError"`
	Order            domain.Order `json:"order"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func orderHandler(svc OrderSubmitter, development bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxOrderBody {
			c.JSON(http.StatusBadRequest, errorResponse{Error: ordersvc.MsgFileTooLarge})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxOrderBody)

		var in ordersvc.Fields
		if err := c.ShouldBindWith(&in, binding.FormMultipart); err != nil {
			writeFormError(c, err)
			return
		}
		upload, err := uploadFromForm(c)
		if err != nil {
			writeFormError(c, err)
			return
		}

		res, err := svc.Submit(c.Request.Context(), in, upload)
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, errorResponse{Error: ve.Message})
				return
			}
			_ = c.Error(err)
			logger.Error("order intake failed",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(err))
			resp := errorResponse{Error: msgInternal}
			if development {
				resp.Details = err.Error()
			}
			c.JSON(http.StatusInternalServerError, resp)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(res))
	}
}

// uploadFromForm returns nil when the form has no file part.
func uploadFromForm(c *gin.Context) (*ordersvc.Upload, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ordersvc.Upload{
		FileInfo: ordersvc.FileInfo{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		},
		Open: openFileHeader(fh),
	}, nil
}

func openFileHeader(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func writeFormError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: ordersvc.MsgFileTooLarge})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidForm})
}

func toOrderResponse(res *ordersvc.Result) orderResponse {
	resp := orderResponse{
		Success:    true,
		OrderID:    res.Order.OrderID,
		Persisted:  res.Persistence.OK(),
		Message:    msgOrderReceived,
		EmailSent:  res.Email.OK(),
		EmailError: res.Email.ReasonPtr(),
		Order:      res.Order,
	}
	if res.Persistence.OK() {
		id := res.Persistence.Info
		resp.PersistenceID = &id
	} else if res.Persistence.Status == domain.StepFailed {
		resp.PersistenceError = res.Persistence.ReasonPtr()
	}
	return resp
}
