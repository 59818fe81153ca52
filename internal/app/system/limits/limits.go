// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits for form submissions.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxPostFormSize bounds the create/edit post form.
	MaxPostFormSize = 1 << 20 // 1 MB

	// MaxAuthFormSize bounds the login and signup forms.
	MaxAuthFormSize = 16 << 10 // 16 KB
)

// LimitBody caps the request body at n bytes. ParseForm then fails on a
// larger body instead of reading it.
func LimitBody(w http.ResponseWriter, r *http.Request, n int64) {
	r.Body = http.MaxBytesReader(w, r.Body, n)
}
