package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders converts headers into slog attributes with credentials
// masked. Authorization values keep their scheme ("Bearer [REDACTED]") so a
// rejected request still shows what kind of credential was sent. Multi-value
// headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		lower := strings.ToLower(key)
		switch {
		case lower == "authorization" || lower == "proxy-authorization":
			attrs = append(attrs, slog.String(key, redactCredential(vals)))
		case logging.SensitiveHeaders[lower]:
			attrs = append(attrs, slog.String(key, redacted))
		default:
			attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
		}
	}
	return attrs
}

func redactCredential(vals []string) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		scheme, _, found := strings.Cut(strings.TrimSpace(v), " ")
		if found && scheme != "" {
			out[i] = scheme + " " + redacted
		} else {
			out[i] = redacted
		}
	}
	return strings.Join(out, ",")
}
