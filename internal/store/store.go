// Package store owns the shared products, categories, orders and config.
//
// Every Store opened on the same Origin sees the same data. A mutation
// writes the changed collection through the origin's kv.Store and then
// signals the origin's bus; each Store reloads all four collections on that
// signal and replaces its snapshot wholesale. Mutations never touch the
// in-memory snapshot directly, so a failed write leaves every view as it was.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"FoodExpress/internal/bus"
	"FoodExpress/internal/kv"
)

const reloadTimeout = 5 * time.Second

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrTotalMismatch     = errors.New("total amount does not match items")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrReasonRequired    = errors.New("cancel reason required")
	ErrCancelNotAllowed  = errors.New("only pending orders can be cancelled")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidConfig     = errors.New("invalid config")
)

var rejections = []error{
	ErrInvalidOrder, ErrTotalMismatch, ErrDuplicateID, ErrInvalidTransition,
	ErrReasonRequired, ErrCancelNotAllowed, ErrInvalidProduct, ErrInvalidCategory,
	ErrInvalidConfig,
}

// IsRejection reports whether err is a caller contract violation rather
// than a persistence failure.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

// errNoMatch ends a mutation whose id matched nothing. It is not returned
// to callers: unknown ids are a no-op.
var errNoMatch = errors.New("no match")

// Origin is one storage origin: a kv backend, the change bus every store on
// it listens to, and the lock that serializes write-then-publish.
type Origin struct {
	KV  kv.Store
	Bus *bus.Bus

	mu sync.Mutex
}

func NewOrigin(s kv.Store) *Origin {
	return &Origin{KV: s, Bus: bus.New()}
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithName labels the store in logs and metrics, usually after its view.
func WithName(name string) Option {
	return func(s *Store) { s.name = name }
}

type Store struct {
	origin  *Origin
	name    string
	log     *zap.Logger
	metrics *Metrics

	sub     *bus.Subscription
	changes *bus.Bus

	mu      sync.RWMutex
	snap    Snapshot
	version uint64
}

// Open loads (seeding an empty origin with the built-in data) and
// subscribes to the origin's change signal.
func Open(ctx context.Context, origin *Origin, opts ...Option) (*Store, error) {
	s := &Store{
		origin:  origin,
		name:    "store",
		log:     zap.NewNop(),
		changes: bus.New(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("store", s.name))

	origin.mu.Lock()
	defer origin.mu.Unlock()

	snap, err := load(ctx, origin.KV)
	if err != nil {
		return nil, err
	}
	s.replace(snap)
	s.sub = origin.Bus.Subscribe(s.reload)

	return s, nil
}

// Close stops receiving change signals. The last snapshot stays readable.
func (s *Store) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
}

// Subscribe registers l to run after every reload of this store.
func (s *Store) Subscribe(l bus.Listener) *bus.Subscription {
	return s.changes.Subscribe(l)
}

// Ping checks the persistence backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.origin.KV.Ping(ctx)
}

// reload runs inside Bus.Publish, which is called with origin.mu held.
func (s *Store) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	snap, err := load(ctx, s.origin.KV)
	if err != nil {
		s.metrics.observeReload(s.name, false)
		s.log.Warn("reload failed, keeping previous snapshot", zap.Error(err))
		return
	}

	s.replace(snap)
	s.metrics.observeReload(s.name, true)
	s.changes.Publish()
}

func (s *Store) replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.version++
}

func (s *Store) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	s.origin.mu.Lock()
	defer s.origin.mu.Unlock()

	err := fn(ctx)
	switch {
	case err == nil:
		s.metrics.observeMutation(op, resultOK)
		s.log.Debug("mutation committed", zap.String("op", op))
		s.origin.Bus.Publish()
		return nil
	case errors.Is(err, errNoMatch):
		s.metrics.observeMutation(op, resultNoop)
		s.log.Debug("mutation matched nothing", zap.String("op", op))
		return nil
	case IsRejection(err):
		s.metrics.observeMutation(op, resultRejected)
		return err
	default:
		s.metrics.observeMutation(op, resultFailed)
		s.log.Error("mutation failed", zap.String("op", op), zap.Error(err))
		return err
	}
}

func load(ctx context.Context, kvs kv.Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	if snap.Products, err = readDoc(ctx, kvs, kv.KeyProducts, DefaultProducts); err != nil {
		return Snapshot{}, err
	}
	if snap.Categories, err = readDoc(ctx, kvs, kv.KeyCategories, DefaultCategories); err != nil {
		return Snapshot{}, err
	}
	if snap.Orders, err = readDoc[[]Order](ctx, kvs, kv.KeyOrders, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Config, err = readDoc(ctx, kvs, kv.KeyConfig, DefaultConfig); err != nil {
		return Snapshot{}, err
	}

	if snap.Products == nil {
		snap.Products = []Product{}
	}
	if snap.Categories == nil {
		snap.Categories = []Category{}
	}
	if snap.Orders == nil {
		snap.Orders = []Order{}
	}
	return snap, nil
}

// readDoc decodes key. An absent key is seeded and written back when seed
// is non-nil, and yields the zero value otherwise. A seeded value is decoded
// from the written bytes so it matches what every later reload sees.
func readDoc[T any](ctx context.Context, kvs kv.Store, key string, seed func() T) (T, error) {
	var zero T

	raw, found, err := kvs.Read(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		if seed == nil {
			return zero, nil
		}
		if raw, err = json.Marshal(seed()); err != nil {
			return zero, fmt.Errorf("encode %s: %w", key, err)
		}
		if err := kvs.Write(ctx, key, raw); err != nil {
			return zero, fmt.Errorf("write %s: %w", key, err)
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func writeDoc(ctx context.Context, kvs kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kvs.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// --- read accessors: every result is a deep copy ---

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Version counts reloads, starting at 1 after Open.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.snap.Products)
}

func (s *Store) AvailableProducts() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.snap.Products))
	for _, p := range s.snap.Products {
		if p.IsAvailable {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (s *Store) Product(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.snap.Products {
		if p.ID == id {
			return cloneProduct(p), true
		}
	}
	return Product{}, false
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.snap.Categories...)
}

func (s *Store) Category(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.snap.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.snap.Orders)
}

func (s *Store) Order(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.snap.Orders {
		if o.ID == id {
			return cloneOrder(o), true
		}
	}
	return Order{}, false
}

// LatestOrder is the most recently added order.
func (s *Store) LatestOrder() (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snap.Orders) == 0 {
		return Order{}, false
	}
	return cloneOrder(s.snap.Orders[0]), true
}

// FindOrderBySuffix matches the end of the id case-insensitively, which is
// how customers look up an order from its short code. Newest match wins.
func (s *Store) FindOrderBySuffix(suffix string) (Order, bool) {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if suffix == "" {
		return Order{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.snap.Orders {
		if strings.HasSuffix(strings.ToLower(o.ID), suffix) {
			return cloneOrder(o), true
		}
	}
	return Order{}, false
}

// ActiveOrders are neither completed nor cancelled, newest first.
func (s *Store) ActiveOrders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.snap.Orders))
	for _, o := range s.snap.Orders {
		if o.Status.Active() {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

// KitchenQueue lists orders whose id or table marker contains search,
// pending orders first, then newest first.
func (s *Store) KitchenQueue(search string) []Order {
	search = strings.ToLower(strings.TrimSpace(search))

	s.mu.RLock()
	out := make([]Order, 0, len(s.snap.Orders))
	for _, o := range s.snap.Orders {
		if search == "" ||
			strings.Contains(strings.ToLower(o.ID), search) ||
			strings.Contains(strings.ToLower(o.TableNumber), search) {
			out = append(out, cloneOrder(o))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Status == StatusPending, out[j].Status == StatusPending
		if pi != pj {
			return pi
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

func (s *Store) Config() SystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConfig(s.snap.Config)
}
