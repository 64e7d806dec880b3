package admindashboard

import (
	"context"
	"fmt"
	"sync"

	"eventadmin/internal/docstore"

	"golang.org/x/sync/errgroup"
)

// Aggregator computes Stats from the users, users/{id}/orders and contacts
// collections. The contacts fetch always happens after every order fetch.
type Aggregator struct {
	docs        docstore.Store
	concurrency int
}

type Option func(*Aggregator)

// WithConcurrency fans out per-user order fetches to at most n in flight.
// n <= 1 keeps the sequential walk.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

func NewAggregator(docs docstore.Store, opts ...Option) *Aggregator {
	a := &Aggregator{docs: docs, concurrency: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Stats(ctx context.Context) (Stats, error) {
	users, err := a.docs.ListCollection(ctx, UsersCollection)
	if err != nil {
		return Stats{}, loadFailed("list users", err)
	}

	var acc accumulator
	if a.concurrency > 1 && len(users) > 1 {
		err = a.collectParallel(ctx, users, &acc)
	} else {
		err = a.collectSequential(ctx, users, &acc)
	}
	if err != nil {
		return Stats{}, err
	}

	contacts, err := a.docs.ListCollection(ctx, ContactsCollection)
	if err != nil {
		return Stats{}, loadFailed("list contacts", err)
	}

	return Stats{
		TotalUsers:    int64(len(users)),
		TotalOrders:   acc.orders,
		TotalRevenue:  acc.revenue,
		PendingOrders: acc.pending,
		TotalContacts: int64(len(contacts)),
	}, nil
}

func (a *Aggregator) collectSequential(ctx context.Context, users []docstore.Document, acc *accumulator) error {
	for _, u := range users {
		orders, err := a.listOrders(ctx, u.ID)
		if err != nil {
			return err
		}
		acc.add(orders)
	}
	return nil
}

func (a *Aggregator) collectParallel(ctx context.Context, users []docstore.Document, acc *accumulator) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, u := range users {
		userID := u.ID
		g.Go(func() error {
			orders, err := a.listOrders(gctx, userID)
			if err != nil {
				return err
			}
			acc.add(orders)
			return nil
		})
	}

	return g.Wait()
}

func (a *Aggregator) listOrders(ctx context.Context, userID string) ([]docstore.Document, error) {
	path := docstore.CollectionPath(UsersCollection, userID, OrdersCollection)
	orders, err := a.docs.ListCollection(ctx, path)
	if err != nil {
		return nil, loadFailed("list orders of user "+userID, err)
	}
	return orders, nil
}

func loadFailed(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStatsLoadFailed, step, err)
}

type accumulator struct {
	mu      sync.Mutex
	orders  int64
	pending int64
	revenue float64
}

func (acc *accumulator) add(orders []docstore.Document) {
	var (
		pending int64
		revenue float64
	)
	for _, o := range orders {
		revenue += orderCost(o)
		if status, ok := o.String(FieldStatus); ok && status == StatusPending {
			pending++
		}
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.orders += int64(len(orders))
	acc.pending += pending
	acc.revenue += revenue
}

// orderCost is the order's totalCost; missing, non-numeric and negative
// values count as 0.
func orderCost(o docstore.Document) float64 {
	cost := o.Number(FieldTotalCost)
	if cost > 0 {
		return cost
	}
	return 0
}
