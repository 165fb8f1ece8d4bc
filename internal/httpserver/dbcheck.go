package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	orderrepo "stickershop/internal/repository/order"
)

type dbCheckResponse struct {
	Connected    bool       `json:"connected"`
	TableExists  *bool      `json:"tableExists,omitempty"`
	Error        string     `json:"error,omitempty"`
	Message      string     `json:"message,omitempty"`
	ErrorDetails string     `json:"errorDetails,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	OrderCount   *int64     `json:"orderCount,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// dbCheckHandler answers 200 for every expected repository state so the
// storefront can render the diagnosis.
func dbCheckHandler(repo Prober) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		var p orderrepo.Probe
		if repo != nil {
			p = repo.Probe(ctx)
		}
		c.JSON(http.StatusOK, describeProbe(p))
	}
}

func describeProbe(p orderrepo.Probe) dbCheckResponse {
	yes, no := true, false
	switch {
	case !p.Configured:
		return dbCheckResponse{
			Error:   "Database not configured",
			Message: "Missing ORDERS_DB_DSN in environment variables",
		}
	case !p.Connected:
		return dbCheckResponse{
			Error:        "Connection test failed",
			ErrorDetails: errString(p.Err),
		}
	case !p.TableExists:
		return dbCheckResponse{
			Connected:    true,
			TableExists:  &no,
			Error:        "Orders table does not exist",
			Message:      "Run `migrate up` against the orders database",
			ErrorDetails: errString(p.Err),
		}
	case p.Err != nil:
		resp := dbCheckResponse{
			Connected:    true,
			TableExists:  &yes,
			Error:        "Database query error",
			ErrorDetails: p.Err.Error(),
		}
		var pgErr *pgconn.PgError
		if errors.As(p.Err, &pgErr) {
			resp.ErrorCode = pgErr.Code
		}
		return resp
	default:
		count := p.OrderCount
		at := p.CheckedAt
		return dbCheckResponse{
			Connected:   true,
			TableExists: &yes,
			Message:     "Successfully connected to the orders database",
			OrderCount:  &count,
			Timestamp:   &at,
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
