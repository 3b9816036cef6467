package masking

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Observer is notified whenever a response body is rewritten.
type Observer interface {
	ObserveMaskedResponse()
}

// ResponseMasker rewrites outbound JSON bodies through the masking adapter.
// It wraps whole route groups so individual handlers never deal with
// masking. Kind names the record shape the wrapped group serves; groups with
// mixed shapes leave it empty and get the base catalog.
type ResponseMasker struct {
	Masker   *Masker
	Logger   *slog.Logger
	Observer Observer
	Kind     Kind
}

// ForKind returns a copy of the masker scoped to one record kind.
func (rm ResponseMasker) ForKind(kind Kind) ResponseMasker {
	rm.Kind = kind
	return rm
}

// Middleware buffers the response, masks JSON payloads for the
// authenticated actor, and replays everything else untouched.
func (rm ResponseMasker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := shared.ActorFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		role, err := authz.ParseRole(actor.Role)
		if err != nil {
			role = ""
		}
		if role == authz.RoleSuperAdmin {
			next.ServeHTTP(w, r)
			return
		}

		buf := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(buf, r)

		body := buf.body.Bytes()
		if buf.status < 300 && isJSON(buf.Header()) && len(body) > 0 {
			kind := rm.Kind
			if kind == "" {
				kind = KindGeneric
			}
			var payload any
			if err := json.Unmarshal(body, &payload); err == nil {
				masked, err := json.Marshal(rm.Masker.MaskResponseKind(payload, role, actor.ID, kind))
				if err == nil {
					body = masked
					if rm.Observer != nil {
						rm.Observer.ObserveMaskedResponse()
					}
				} else if rm.Logger != nil {
					rm.Logger.Error("mask response", slog.Any("error", err))
				}
			}
		}

		buf.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(buf.status)
		_, _ = w.Write(body)
	})
}

type bufferedResponse struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *bufferedResponse) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedResponse) Write(data []byte) (int, error) {
	return b.body.Write(data)
}

func isJSON(header http.Header) bool {
	return strings.HasPrefix(header.Get("Content-Type"), "application/json")
}
