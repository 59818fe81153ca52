// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/yatube/internal/app/store"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	Store store.Backend
}
