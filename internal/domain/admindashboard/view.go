package admindashboard

import (
	"context"
	"strings"
)

// Navigation targets. The management pages themselves live elsewhere.
const (
	RouteDashboard = "/admin"
	RouteUsers     = "/admin/users"
	RouteOrders    = "/admin/orders"
	RouteContacts  = "/admin/contacts"
	RouteSignIn    = "/admin/sign-in"
	RouteSignOut   = "/admin/sign-out"
)

const (
	MsgStatsLoadFailed = "Failed to load dashboard stats"
	MsgLogoutSucceeded = "Logged out successfully"
	MsgLogoutFailed    = "Error logging out"

	defaultDisplayName = "Admin"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message. The presentation layer decides how it
// is shown.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

type StatCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Link  string `json:"link"`
}

type QuickAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

var quickActions = []QuickAction{
	{Title: "Manage Users", Description: "View and manage all registered users", Link: RouteUsers},
	{Title: "Manage Orders", Description: "View and update order statuses", Link: RouteOrders},
	{Title: "View Contacts", Description: "Check customer inquiries", Link: RouteContacts},
}

// View is the dashboard page model. It starts in PhaseLoading and moves to
// PhaseReady exactly once, through Load.
type View struct {
	Phase        Phase         `json:"phase"`
	Greeting     string        `json:"greeting"`
	Stats        Stats         `json:"stats"`
	Cards        []StatCard    `json:"cards"`
	QuickActions []QuickAction `json:"quick_actions"`
	Notices      []Notice      `json:"notices"`
	LogoutURL    string        `json:"logout_url"`

	format *Formatter
}

func NewView(displayName string, f *Formatter) *View {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultDisplayName
	}

	return &View{
		Phase:        PhaseLoading,
		Greeting:     "Welcome back, " + name,
		QuickActions: append([]QuickAction(nil), quickActions...),
		Notices:      []Notice{},
		LogoutURL:    RouteSignOut,
		format:       f,
	}
}

// Load runs the aggregation and moves the view to PhaseReady. On failure the
// stats stay zero, one error notice is added and the error is returned for
// logging. Calling Load on a ready view does nothing.
func (v *View) Load(ctx context.Context, loader Loader) error {
	if v.Phase != PhaseLoading {
		return nil
	}

	stats, err := loader.Stats(ctx)
	if err != nil {
		stats = Stats{}
		v.Notify(NoticeError, MsgStatsLoadFailed)
	}

	v.Stats = stats
	v.Cards = v.cards(stats)
	v.Phase = PhaseReady
	return err
}

func (v *View) Notify(level NoticeLevel, msg string) {
	v.Notices = append(v.Notices, Notice{Level: level, Message: msg})
}

func (v *View) cards(s Stats) []StatCard {
	return []StatCard{
		{Title: "Total Users", Value: v.format.Count(s.TotalUsers), Link: RouteUsers},
		{Title: "Total Orders", Value: v.format.Count(s.TotalOrders), Link: RouteOrders},
		{Title: "Pending Orders", Value: v.format.Count(s.PendingOrders), Link: RouteOrders},
		{Title: "Total Revenue", Value: v.format.Revenue(s.TotalRevenue), Link: RouteOrders},
		{Title: "Contact Messages", Value: v.format.Count(s.TotalContacts), Link: RouteContacts},
	}
}
