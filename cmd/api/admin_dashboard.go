package main

import (
	"context"
	"expvar"
	"net/http"

	"eventadmin/internal/auth"
	"eventadmin/internal/domain/admindashboard"

	"github.com/justinas/nosurf"
)

var statsLoadFailures = expvar.NewInt("dashboard_stats_failures")

// loadDashboard builds a ready view for the signed-in admin. A failed
// aggregation is logged here; the view already carries the error notice.
func (app *application) loadDashboard(ctx context.Context, s auth.Session) *admindashboard.View {
	ctx, cancel := context.WithTimeout(ctx, app.config.dashboard.statsTimeout)
	defer cancel()

	view := admindashboard.NewView(s.DisplayName, app.formatter)
	if err := view.Load(ctx, app.stats); err != nil {
		statsLoadFailures.Add(1)
		app.logger.Errorw("dashboard stats failed", "admin_id", s.AdminID, "error", err)
	}

	return view
}

func (app *application) dashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := getSessionFromContext(r)

	view := app.loadDashboard(r.Context(), s)
	for _, n := range app.popFlash(r) {
		view.Notify(n.Level, n.Message)
	}

	app.render(w, r, http.StatusOK, "dashboard.page.html", &pageData{
		Title:     "Dashboard",
		CSRFToken: nosurf.Token(r),
		Notices:   view.Notices,
		View:      view,
	})
}

// adminDashboardHandler is the JSON form of the dashboard page for the SPA
// and other API clients.
func (app *application) adminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := getSessionFromContext(r)

	view := app.loadDashboard(r.Context(), s)

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}
