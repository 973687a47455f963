// AngelaMos | 2026
// params.go

package core

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathID parses a positive integer URL parameter. A malformed id cannot name
// any row, so it is answered as not found and ok is false.
func PathID(
	w http.ResponseWriter,
	r *http.Request,
	param, resource string,
) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		NotFound(w, resource)
		return 0, false
	}
	return id, true
}
