package main

import (
	"net/http"

	"eventadmin/internal/domain/admindashboard"
)

const (
	flashSuccessKey = "flash_success"
	flashErrorKey   = "flash_error"
)

// putFlash stores a notice that survives one redirect.
func (app *application) putFlash(r *http.Request, level admindashboard.NoticeLevel, msg string) {
	key := flashSuccessKey
	if level == admindashboard.NoticeError {
		key = flashErrorKey
	}
	app.sessions.Put(r.Context(), key, msg)
}

func (app *application) popFlash(r *http.Request) []admindashboard.Notice {
	var out []admindashboard.Notice
	if msg := app.sessions.PopString(r.Context(), flashSuccessKey); msg != "" {
		out = append(out, admindashboard.Notice{Level: admindashboard.NoticeSuccess, Message: msg})
	}
	if msg := app.sessions.PopString(r.Context(), flashErrorKey); msg != "" {
		out = append(out, admindashboard.Notice{Level: admindashboard.NoticeError, Message: msg})
	}
	return out
}
