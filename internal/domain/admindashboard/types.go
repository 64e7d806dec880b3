package admindashboard

import (
	"context"
	"errors"
)

const (
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	ContactsCollection = "contacts"

	FieldTotalCost = "totalCost"
	FieldStatus    = "status"

	StatusPending = "pending"
)

// ErrStatsLoadFailed wraps every failure of a stats aggregation.
var ErrStatsLoadFailed = errors.New("stats load failed")

// Stats is the aggregate shown on the dashboard. It is recomputed on every
// request and never stored.
type Stats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	PendingOrders int64   `json:"pending_orders"`
	TotalContacts int64   `json:"total_contacts"`
}

type Loader interface {
	Stats(ctx context.Context) (Stats, error)
}
