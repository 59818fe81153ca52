// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/formutil"
	"github.com/dalemusser/yatube/internal/app/system/inputval"
	"github.com/dalemusser/yatube/internal/app/system/limits"
	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/yatube/internal/app/system/render"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// View is the signup page template.
const View = "signup"

// MsgUsernameTaken is the duplicate-username field error.
const MsgUsernameTaken = "A user with that username already exists."

// Form field names.
const (
	FieldUsername  = "username"
	FieldFullName  = "full_name"
	FieldPassword  = "password1"
	FieldPassword2 = "password2"
)

var fieldNames = map[string]string{
	"Username":  FieldUsername,
	"FullName":  FieldFullName,
	"Password":  FieldPassword,
	"Password2": FieldPassword2,
}

type signupInput struct {
	Username  string `validate:"required,max=150,username" label:"Username"`
	FullName  string `validate:"max=150" label:"Full name"`
	Password  string `validate:"required,min=8,bcryptlen" label:"Password"`
	Password2 string `validate:"required,eqfield=Password" label:"Password confirmation"`
}

type Handler struct {
	Users      store.Users
	SessionMgr *auth.SessionManager
	Render     render.Func
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// BcryptCost is the hashing cost for new passwords.
	BcryptCost int
}

func NewHandler(users store.Users, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Render:     render.HTML,
		ErrLog:     errLog,
		Log:        logger,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// FormData is the signup page model. Passwords are never echoed.
type FormData struct {
	formutil.Base
	Username string
	FullName string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var data FormData
	formutil.SetBase(&data.Base, r, "Sign up", "/")
	h.Render(w, r, http.StatusOK, View, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	limits.LimitBody(w, r, limits.MaxAuthFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	input := signupInput{
		Username:  normalize.Username(r.PostFormValue(FieldUsername)),
		FullName:  normalize.Name(r.PostFormValue(FieldFullName)),
		Password:  r.PostFormValue(FieldPassword),
		Password2: r.PostFormValue(FieldPassword2),
	}

	data := FormData{Username: input.Username, FullName: input.FullName}
	formutil.SetBase(&data.Base, r, "Sign up", "/")

	if result := inputval.Validate(input); result.HasErrors() {
		for _, fe := range result.Errors {
			data.AddFieldError(fieldNames[fe.Field], fe.Message)
		}
		h.Render(w, r, http.StatusOK, View, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Usernames route case-sensitively but must not collide when folded.
	if _, err := h.Users.GetByUsernameCI(ctx, text.Fold(input.Username)); err == nil {
		data.AddFieldError(FieldUsername, MsgUsernameTaken)
		h.Render(w, r, http.StatusOK, View, data)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "signup: username lookup failed", err, "Could not create the account.", "/signup")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), h.BcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: hash password", err, "Could not create the account.", "/signup")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrDuplicate) {
		data.AddFieldError(FieldUsername, MsgUsernameTaken)
		h.Render(w, r, http.StatusOK, View, data)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: create user", err, "Could not create the account.", "/signup")
		return
	}

	h.Log.Info("user signed up", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	if err := h.SessionMgr.Login(w, r, &auth.SessionUser{ID: u.ID, Username: u.Username, Name: u.FullName}); err != nil {
		// The account exists; let them sign in by hand.
		h.Log.Error("signup: save session", zap.Error(err), zap.Int64("user_id", u.ID))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
