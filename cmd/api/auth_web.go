package main

import (
	"errors"
	"net/http"
	"strings"

	"eventadmin/internal/auth"
	"eventadmin/internal/domain/admindashboard"

	"github.com/justinas/nosurf"
)

const refreshCookiePath = "/v1/admin"

type signInPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type signInResponse struct {
	Session auth.Session   `json:"session"`
	Tokens  auth.TokenPair `json:"tokens"`
}

type signOutResponse struct {
	Notice   admindashboard.Notice `json:"notice"`
	Redirect string                `json:"redirect"`
}

// setAuthCookies sets access + refresh tokens as HttpOnly cookies.
func (app *application) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Domain:   app.config.cookieDomain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.accessTokenExp.Seconds()),
	})

	// refresh/sign-out only
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		Domain:   app.config.cookieDomain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.refreshTokenExp.Seconds()),
	})
}

func (app *application) clearAuthCookies(w http.ResponseWriter) {
	expire := func(name, path string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			Domain:   app.config.cookieDomain,
			HttpOnly: true,
			Secure:   app.config.env == "production",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	expire(accessTokenCookie, "/")
	expire(refreshTokenCookie, refreshCookiePath)
}

func (app *application) signInPageHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "sign_in.page.html", &pageData{
		Title:     "Sign in",
		CSRFToken: nosurf.Token(r),
		Notices:   app.popFlash(r),
	})
}

func (app *application) signInFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	payload := signInPayload{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}

	retry := func(status int, msg string) {
		app.render(w, r, status, "sign_in.page.html", &pageData{
			Title:     "Sign in",
			CSRFToken: nosurf.Token(r),
			Notices:   []admindashboard.Notice{{Level: admindashboard.NoticeError, Message: msg}},
			Email:     payload.Email,
		})
	}

	if err := Validate.Struct(payload); err != nil {
		retry(http.StatusUnprocessableEntity, "Enter a valid email and password")
		return
	}

	s, pair, err := app.identity.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.logger.Infow("admin sign in rejected", "email", payload.Email)
			retry(http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
			return
		}
		app.serverErrorPage(w, r, err)
		return
	}
	if s.Role != adminRole {
		retry(http.StatusForbidden, "This account may not use the admin panel")
		return
	}

	if err := app.sessions.RenewToken(r.Context()); err != nil {
		app.serverErrorPage(w, r, err)
		return
	}

	app.setAuthCookies(w, pair)
	http.Redirect(w, r, admindashboard.RouteDashboard, http.StatusSeeOther)
}

// signOutFormHandler revokes the session and sends the admin to the sign-in
// page. If revocation fails the admin stays signed in on the dashboard.
func (app *application) signOutFormHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := getSessionFromContext(r)

	if err := app.identity.SignOut(r.Context(), s); err != nil {
		app.logger.Errorw("sign out failed", "admin_id", s.AdminID, "error", err)
		app.putFlash(r, admindashboard.NoticeError, admindashboard.MsgLogoutFailed)
		http.Redirect(w, r, admindashboard.RouteDashboard, http.StatusSeeOther)
		return
	}

	app.clearAuthCookies(w)
	app.putFlash(r, admindashboard.NoticeSuccess, admindashboard.MsgLogoutSucceeded)
	http.Redirect(w, r, admindashboard.RouteSignIn, http.StatusSeeOther)
}

func (app *application) signInHandler(w http.ResponseWriter, r *http.Request) {
	var payload signInPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	s, pair, err := app.identity.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if s.Role != adminRole {
		app.forbiddenResponse(w, r)
		return
	}

	app.setAuthCookies(w, pair)

	if err := app.jsonResponse(w, http.StatusOK, signInResponse{Session: s, Tokens: pair}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// refreshTokenHandler takes the refresh token from its cookie, or from the
// JSON body for clients that do not keep cookies.
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(refreshTokenCookie); err == nil && c.Value != "" {
		token = c.Value
	} else {
		var payload refreshPayload
		if err := readJSON(w, r, &payload); err != nil {
			app.unauthorizedErrorResponse(w, r, errors.New("missing refresh token"))
			return
		}
		if err := Validate.Struct(payload); err != nil {
			app.unauthorizedErrorResponse(w, r, errors.New("missing refresh token"))
			return
		}
		token = payload.RefreshToken
	}

	s, pair, err := app.identity.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.setAuthCookies(w, pair)

	if err := app.jsonResponse(w, http.StatusOK, signInResponse{Session: s, Tokens: pair}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) signOutHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := getSessionFromContext(r)

	if err := app.identity.SignOut(r.Context(), s); err != nil {
		app.logger.Errorw("sign out failed", "admin_id", s.AdminID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, admindashboard.MsgLogoutFailed)
		return
	}

	app.clearAuthCookies(w)

	out := signOutResponse{
		Notice:   admindashboard.Notice{Level: admindashboard.NoticeSuccess, Message: admindashboard.MsgLogoutSucceeded},
		Redirect: admindashboard.RouteSignIn,
	}
	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := getSessionFromContext(r)
	if !ok {
		app.unauthorizedErrorResponse(w, r, errors.New("not authorized"))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, s); err != nil {
		app.internalServerError(w, r, err)
	}
}
