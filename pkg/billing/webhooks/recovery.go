package webhooks

import (
	"fmt"
	"net/http"

	"github.com/zyzyva/square-client/internal/shared/apperrors"
	"github.com/zyzyva/square-client/internal/shared/logutil"
)

// Recover wraps a handler so a panicking webhook never kills the process:
// the panic is logged, tracked and turned into a 500.
func Recover(h http.Handler, log logutil.Log, tracker apperrors.Tracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("Panic while handling %s %s: %v", r.Method, r.URL.Path, rec)
				tracker.WithHTTPRequest(r).Track(apperrors.LevelError,
					fmt.Sprintf("webhook panic: %v", rec), nil)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()

		h.ServeHTTP(w, r)
	})
}
