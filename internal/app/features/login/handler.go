// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/formutil"
	"github.com/dalemusser/yatube/internal/app/system/limits"
	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/yatube/internal/app/system/ratelimit"
	"github.com/dalemusser/yatube/internal/app/system/render"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// View is the login page template.
const View = "login"

// MsgBadCredentials is shown for an unknown user or a wrong password alike.
const MsgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type Handler struct {
	Users      store.Users
	SessionMgr *auth.SessionManager
	Render     render.Func
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Limiter throttles POST /login; nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(users store.Users, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Render:     render.HTML,
		ErrLog:     errLog,
		Log:        logger,
		Limiter:    limiter,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// FormData is the login page model.
type FormData struct {
	formutil.Base
	Username string // what the user typed
	Next     string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	data := FormData{Next: query.Get(r, "next")}
	formutil.SetBase(&data.Base, r, "Log in", "/")
	h.Render(w, r, http.StatusOK, View, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	limits.LimitBody(w, r, limits.MaxAuthFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := normalize.Username(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	if username == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your username and password.", username, next)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, username); !ok {
			h.Log.Warn("login: throttled",
				zap.String("username", username),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithStatus(w, r, http.StatusTooManyRequests, reason, username, next)
			return
		}
	}

	/*── look-up user by username_ci (case/diacritic-insensitive) ──────────*/

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsernameCI(ctx, text.Fold(username))
	if errors.Is(err, store.ErrNotFound) {
		h.Log.Info("login: unknown username", zap.String("username", username))
		h.renderFormWithError(w, r, MsgBadCredentials, username, next)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup failed", err, "Could not sign you in. Please try again.", "/login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		h.Log.Info("login: wrong password", zap.Int64("user_id", u.ID))
		h.renderFormWithError(w, r, MsgBadCredentials, username, next)
		return
	}

	su := &auth.SessionUser{ID: u.ID, Username: u.Username, Name: u.FullName}
	if err := h.SessionMgr.Login(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.Int64("user_id", u.ID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", username, next)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetUsername(username)
	}

	h.Log.Info("login success", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	http.Redirect(w, r, urlutil.SafeReturn(next, "", "/"), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username, next string) {
	h.renderFormWithStatus(w, r, http.StatusOK, msg, username, next)
}

func (h *Handler) renderFormWithStatus(w http.ResponseWriter, r *http.Request, status int, msg, username, next string) {
	data := FormData{Username: username, Next: next}
	formutil.SetBase(&data.Base, r, "Log in", "/")
	data.SetError(msg)
	h.Render(w, r, status, View, data)
}
