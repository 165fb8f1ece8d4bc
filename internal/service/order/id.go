package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderID returns "ORD-<unix millis>-<8 hex chars>". The random suffix keeps
// two submissions within the same millisecond apart.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
