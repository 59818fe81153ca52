// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/yatube/internal/app/features/errors"
	healthfeature "github.com/dalemusser/yatube/internal/app/features/health"
	loginfeature "github.com/dalemusser/yatube/internal/app/features/login"
	logoutfeature "github.com/dalemusser/yatube/internal/app/features/logout"
	postsfeature "github.com/dalemusser/yatube/internal/app/features/posts"
	signupfeature "github.com/dalemusser/yatube/internal/app/features/signup"
	userstore "github.com/dalemusser/yatube/internal/app/store/users"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/ratelimit"
	"github.com/dalemusser/yatube/internal/app/system/render"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. yatube boots the template engine,
// installs session and CSRF middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Reload the user on each request so deleted accounts are signed out at once.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.Store.Users()))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()
	r.Use(csrfProtect(appCfg.CSRFKey, secure, logger)...)
	mountRoutes(r, deps, appCfg, sessionMgr, logger)
	return r, nil
}

// mountRoutes attaches session loading and every feature router to r.
func mountRoutes(r chi.Router, deps DBDeps, appCfg AppConfig, sessionMgr *auth.SessionManager, logger *zap.Logger) {
	errLog := errorsfeature.NewErrorLogger(logger)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Error pages
	errorsHandler := errorsfeature.NewHandler(render.HTML)
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Authentication; the login limiter lives for the whole process.
	loginHandler := loginfeature.NewHandler(deps.Store.Users(), sessionMgr, ratelimit.NewLoginLimiter(), errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	signupHandler := signupfeature.NewHandler(deps.Store.Users(), sessionMgr, errLog, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	// Posts: listings, detail, create and edit
	postsHandler := postsfeature.NewHandler(deps.Store, appCfg.PostsPerPage, errLog, logger)
	r.Mount("/", postsfeature.Routes(postsHandler, sessionMgr))
}

// csrfProtect returns the CSRF middleware chain. A blank key generates a
// random one, which invalidates open forms on restart.
func csrfProtect(key string, secure bool, logger *zap.Logger) []func(http.Handler) http.Handler {
	authKey := []byte(key)
	if key == "" {
		authKey = securecookie.GenerateRandomKey(32)
		logger.Warn("csrf_key not set; generated a per-process key")
	}

	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.RenderForbidden(render.HTML, w, r, "The form has expired. Reload the page and try again.", "/")
		})),
	)

	if secure {
		return []func(http.Handler) http.Handler{protect}
	}
	// Over plain http the Referer must not be held to an https origin.
	plaintext := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	return []func(http.Handler) http.Handler{plaintext, protect}
}
