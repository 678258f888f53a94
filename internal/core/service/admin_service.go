package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
	"github.com/growshop/admin-console/internal/core/session"
	"github.com/growshop/admin-console/internal/core/table"
)

// AdminService orchestrates the whole panel: authentication against the
// storefront, the one-time setup on first admin access, the two table
// engines, CRUD pass-through with full reload, and the broadcast channel.
//
// All view state (engines, activity feed, staleness) lives behind one mutex.
// The engines themselves are unsynchronized by design; this service is their
// single event loop.
type AdminService struct {
	auth       ports.AuthService
	data       ports.DataService
	notify     ports.NotificationChannel
	sessions   ports.SessionStore
	snapshots  ports.SnapshotStore
	identities *session.IdentityStore
	gate       *session.Gate
	allowlist  []string
	log        zerolog.Logger
	sessionTTL time.Duration

	mu            sync.Mutex
	sid           string
	current       *ports.SessionData
	products      *table.Engine[domain.Product]
	users         *table.Engine[domain.User]
	activity      []domain.Activity
	productsStale bool
	loading       bool
	loggingIn     bool
}

const defaultSessionTTL = 24 * time.Hour

// NewAdminService wires the service and its session gate. allowlist is the
// set of operator emails treated as admins regardless of role.
func NewAdminService(
	auth ports.AuthService,
	data ports.DataService,
	notify ports.NotificationChannel,
	sessions ports.SessionStore,
	snapshots ports.SnapshotStore,
	allowlist []string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AdminService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}

	s := &AdminService{
		auth:       auth,
		data:       data,
		notify:     notify,
		sessions:   sessions,
		snapshots:  snapshots,
		identities: session.NewIdentityStore(),
		allowlist:  allowlist,
		log:        log,
		sessionTTL: sessionTTL,
		products:   table.NewEngine(productTableConfig()),
		users:      table.NewEngine(userTableConfig()),
	}
	s.gate = session.NewGate(allowlist, s.setup, log)
	return s
}

func productTableConfig() table.Config[domain.Product] {
	return table.Config[domain.Product]{
		SearchFields: []func(domain.Product) string{
			func(p domain.Product) string { return p.Title },
			func(p domain.Product) string { return p.Category },
		},
		SortKeys: map[string]table.KeyFunc[domain.Product]{
			"title":     table.StringKey(func(p domain.Product) string { return p.Title }),
			"price":     table.NumberKey(func(p domain.Product) float64 { return float64(p.Price) }),
			"stock":     table.NumberKey(func(p domain.Product) float64 { return float64(p.Stock) }),
			"sales":     table.NumberKey(func(p domain.Product) float64 { return float64(p.Sales) }),
			"createdAt": table.TimeKey(func(p domain.Product) time.Time { return p.CreatedAt }),
		},
		DefaultSort: table.SortState{Column: "createdAt", Direction: table.Desc},
		PageSize:    table.DefaultPageSize,
	}
}

func userTableConfig() table.Config[domain.User] {
	return table.Config[domain.User]{
		SearchFields: []func(domain.User) string{
			func(u domain.User) string { return u.Name },
			func(u domain.User) string { return u.Email },
		},
		SortKeys: map[string]table.KeyFunc[domain.User]{
			"name":      table.StringKey(func(u domain.User) string { return u.Name }),
			"email":     table.StringKey(func(u domain.User) string { return u.Email }),
			"role":      table.StringKey(func(u domain.User) string { return u.Role }),
			"createdAt": table.TimeKey(func(u domain.User) time.Time { return u.CreatedAt }),
		},
		DefaultSort: table.SortState{Column: "createdAt", Direction: table.Desc},
		PageSize:    table.DefaultPageSize,
	}
}

// IdentityChanges exposes the identity store's notification stream so outer
// layers can react to login/logout without polling.
func (s *AdminService) IdentityChanges() <-chan *domain.Identity {
	return s.identities.Subscribe()
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// Login authenticates against the storefront, rejects non-admins without
// persisting anything, and on success stores the session, publishes the
// identity change, and runs the one-time panel setup.
//
// A second login while one is in flight fails with domain.ErrBusy; the
// surface maps that to a disabled-submit response rather than cancelling the
// first attempt.
func (s *AdminService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	s.mu.Lock()
	if s.loggingIn {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	s.loggingIn = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loggingIn = false
		s.mu.Unlock()
	}()

	identity, token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return nil, err
	}
	if !identity.Valid() {
		s.log.Warn().Str("email", email).Msg("storefront returned malformed identity")
		return nil, domain.ErrInvalidCredentials
	}

	if !identity.IsAdmin(s.allowlist) {
		// Mirror the panel's behavior: a successful login without admin
		// rights leaves no trace, so the next attempt starts clean.
		return nil, domain.ErrForbidden
	}

	sid := newSessionID()
	data := ports.SessionData{
		Identity:        *identity,
		StorefrontToken: token,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, sid, data, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.sid = sid
	s.current = &data
	s.mu.Unlock()

	s.identities.Set(identity)
	decision := s.gate.Evaluate(ctx, identity)

	s.log.Info().Str("email", identity.Email).Msg("admin logged in")

	return &ports.LoginResult{SessionID: sid, Identity: *identity, Decision: decision}, nil
}

// Restore revalidates a session after a console restart or page reload.
// Unknown, expired, or malformed sessions downgrade silently to
// domain.ErrSessionExpired; a first visit without a session is normal, not an
// error worth surfacing.
func (s *AdminService) Restore(ctx context.Context, sid string) (*ports.RestoreResult, error) {
	data, decision, err := s.restore(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &ports.RestoreResult{Identity: data.Identity, Decision: decision}, nil
}

// restore loads and revalidates a session record, caches it, publishes the
// identity change, and re-evaluates the gate. It returns the loaded record
// directly so callers are never exposed to the cached copy, which a
// concurrent logout may clear at any moment.
func (s *AdminService) restore(ctx context.Context, sid string) (*ports.SessionData, session.Decision, error) {
	data, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return nil, session.Decision{}, err
	}
	if !data.Identity.Valid() {
		// Never partially trust a corrupt session record.
		_ = s.sessions.Delete(ctx, sid)
		return nil, session.Decision{}, domain.ErrSessionExpired
	}

	s.mu.Lock()
	s.sid = sid
	s.current = data
	s.mu.Unlock()

	identity := data.Identity
	s.identities.Set(&identity)
	decision := s.gate.Evaluate(ctx, &identity)

	return data, decision, nil
}

// Logout clears the stored session, closes the notification channel, and
// re-arms the one-time setup for the next login.
func (s *AdminService) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Delete(ctx, sid); err != nil {
		s.log.Warn().Err(err).Msg("session delete failed")
	}

	s.mu.Lock()
	s.sid = ""
	s.current = nil
	s.activity = nil
	s.mu.Unlock()

	if err := s.notify.Close(); err != nil {
		s.log.Debug().Err(err).Msg("notification channel close")
	}

	s.identities.Set(nil)
	s.gate.Logout()

	s.log.Info().Msg("admin logged out")
	return nil
}

// resolveSession returns the active session for sid, reloading it from the
// session store after a restart. The gate re-evaluates on a reload so the
// panel setup runs again in the fresh process.
func (s *AdminService) resolveSession(ctx context.Context, sid string) (*ports.SessionData, error) {
	s.mu.Lock()
	if s.current != nil && s.sid == sid {
		data := s.current
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	data, decision, err := s.restore(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !decision.ShowPanel {
		return nil, domain.ErrForbidden
	}
	return data, nil
}

// setup is the gate's one-time action: load both collections concurrently and
// bring up the notification channel. A channel failure only degrades the
// broadcast panel, so it is logged rather than propagated.
func (s *AdminService) setup(ctx context.Context) error {
	if err := s.notify.Connect(ctx); err != nil {
		s.log.Warn().Err(err).Msg("notification channel unavailable, broadcast disabled")
	}
	return s.loadData(ctx)
}

// ---------------------------------------------------------------------------
// Data loading
// ---------------------------------------------------------------------------

// loadData fetches products and users concurrently and swaps both engines'
// backing collections. The activity feed is only rebuilt once both fetches
// have completed, since it merges the two. A reload already in flight makes
// this call fail fast with domain.ErrBusy instead of doubling the fetches.
func (s *AdminService) loadData(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	s.loading = true
	token := ""
	if s.current != nil {
		token = s.current.StorefrontToken
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var (
		wg          sync.WaitGroup
		productList []domain.Product
		userList    []domain.User
		stale       bool
		productErr  error
		userErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		productList, stale, productErr = s.fetchProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		userList, userErr = s.data.ListUsers(ctx, token)
	}()
	wg.Wait()

	if productErr != nil {
		return fmt.Errorf("load products: %w", productErr)
	}
	if userErr != nil {
		return fmt.Errorf("load users: %w", userErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products.SetRecords(productList)
	s.users.SetRecords(userList)
	s.productsStale = stale
	s.activity = domain.BuildActivityFeed(productList, userList, time.Now().UTC())

	s.log.Info().
		Int("products", len(productList)).
		Int("users", len(userList)).
		Bool("stale", stale).
		Msg("collections loaded")
	return nil
}

// fetchProducts loads the product collection, falling back to the offline
// snapshot when the storefront is unreachable. Fresh loads refresh the
// snapshot; snapshot write failures are not worth failing the load over.
func (s *AdminService) fetchProducts(ctx context.Context) ([]domain.Product, bool, error) {
	list, err := s.data.ListProducts(ctx)
	if err == nil {
		if snapErr := s.snapshots.SaveProducts(ctx, list); snapErr != nil {
			s.log.Warn().Err(snapErr).Msg("product snapshot write failed")
		}
		return list, false, nil
	}

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		return nil, false, err
	}

	cached, savedAt, snapErr := s.snapshots.LoadProducts(ctx)
	if snapErr != nil {
		return nil, false, err
	}
	s.log.Warn().Time("snapshot_at", savedAt).Msg("storefront unreachable, serving product snapshot")
	return cached, true, nil
}

// reloadAfterMutation refreshes both collections after a storefront write
// succeeded. A reload already in flight is not an error for the caller: the
// write was applied, and the next reload surfaces it, so ErrBusy here must
// not be mistaken for a failed mutation.
func (s *AdminService) reloadAfterMutation(ctx context.Context) error {
	if err := s.loadData(ctx); err != nil && !errors.Is(err, domain.ErrBusy) {
		return err
	}
	return nil
}

// Reload refetches both collections on demand.
func (s *AdminService) Reload(ctx context.Context, sid string) error {
	if _, err := s.resolveSession(ctx, sid); err != nil {
		return err
	}
	return s.loadData(ctx)
}

// ---------------------------------------------------------------------------
// Table views
// ---------------------------------------------------------------------------

// ProductTable applies the view command to the product engine and computes
// the next page.
func (s *AdminService) ProductTable(ctx context.Context, sid string, cmd ports.TableCommand) (*ports.ProductTableView, error) {
	if _, err := s.resolveSession(ctx, sid); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	page := applyCommand(s.products, cmd)
	return &ports.ProductTableView{
		Page:  page,
		Sort:  s.products.Sort(),
		Query: s.products.Query(),
		Stale: s.productsStale,
	}, nil
}

// UserTable applies the view command to the user engine and computes the next
// page.
func (s *AdminService) UserTable(ctx context.Context, sid string, cmd ports.TableCommand) (*ports.UserTableView, error) {
	if _, err := s.resolveSession(ctx, sid); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	page := applyCommand(s.users, cmd)
	return &ports.UserTableView{
		Page:  page,
		Sort:  s.users.Sort(),
		Query: s.users.Query(),
	}, nil
}

// applyCommand runs the table commands in interaction order: search first
// (resets the page), then a sort toggle, then paging. Unknown page tokens are
// ignored rather than rejected.
func applyCommand[R any](e *table.Engine[R], cmd ports.TableCommand) table.PageResult[R] {
	if cmd.Search != nil {
		e.ChangeQuery(*cmd.Search)
	}
	if cmd.Sort != "" {
		if cmd.Dir != "" {
			e.SetSort(table.SortState{Column: cmd.Sort, Direction: table.Direction(cmd.Dir)})
		} else {
			e.ChangeSort(cmd.Sort)
		}
	}
	switch cmd.Page {
	case "":
	case "next":
		e.NextPage()
	case "prev":
		e.PrevPage()
	default:
		if n, err := strconv.Atoi(cmd.Page); err == nil {
			e.GoToPage(n)
		}
	}
	return e.Compute()
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// Dashboard computes the stats header and returns the activity feed built at
// load time.
func (s *AdminService) Dashboard(ctx context.Context, sid string) (*ports.DashboardData, error) {
	if _, err := s.resolveSession(ctx, sid); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	productList := s.products.Records()
	var revenue int64
	var top *domain.Product
	for i := range productList {
		p := &productList[i]
		revenue += p.Price * int64(p.Sales)
		if p.Sales > 0 && (top == nil || p.Sales > top.Sales) {
			top = p
		}
	}

	data := &ports.DashboardData{
		TotalProducts: len(productList),
		TotalUsers:    len(s.users.Records()),
		TotalRevenue:  revenue,
		Activity:      s.activity,
		Channel:       s.notify.State(),
	}
	if top != nil {
		clone := *top
		data.TopSeller = &clone
		data.TopSellerSales = top.Sales
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// CRUD orchestration
// ---------------------------------------------------------------------------

// CreateProduct validates, submits to the storefront, then reloads. No local
// state changes until the reload succeeds.
func (s *AdminService) CreateProduct(ctx context.Context, sid string, input ports.ProductInput) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if msgs := ValidateProduct(input); len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	if err := s.data.CreateProduct(ctx, data.StorefrontToken, input); err != nil {
		return err
	}
	return s.reloadAfterMutation(ctx)
}

// UpdateProduct validates, patches via the storefront, then reloads.
func (s *AdminService) UpdateProduct(ctx context.Context, sid, id string, input ports.ProductInput) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if msgs := ValidateProduct(input); len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	if err := s.data.UpdateProduct(ctx, data.StorefrontToken, id, input); err != nil {
		return err
	}
	return s.reloadAfterMutation(ctx)
}

// DeleteProduct removes a product via the storefront, then reloads.
func (s *AdminService) DeleteProduct(ctx context.Context, sid, id string) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if err := s.data.DeleteProduct(ctx, data.StorefrontToken, id); err != nil {
		return err
	}
	return s.reloadAfterMutation(ctx)
}

// PromoteUser grants a user the admin role via the storefront, then reloads.
func (s *AdminService) PromoteUser(ctx context.Context, sid, id string) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if err := s.data.PromoteUser(ctx, data.StorefrontToken, id); err != nil {
		return err
	}
	return s.reloadAfterMutation(ctx)
}

// BanUser deactivates a user via the storefront, then reloads.
func (s *AdminService) BanUser(ctx context.Context, sid, id string) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if err := s.data.BanUser(ctx, data.StorefrontToken, id); err != nil {
		return err
	}
	return s.reloadAfterMutation(ctx)
}

// ---------------------------------------------------------------------------
// Broadcast
// ---------------------------------------------------------------------------

// SendBroadcast pushes an announcement to every connected storefront client.
// It fails fast when the channel is down; the panel disables the send button
// on that state.
func (s *AdminService) SendBroadcast(ctx context.Context, sid, message string) error {
	data, err := s.resolveSession(ctx, sid)
	if err != nil {
		return err
	}
	if msgs := ValidateBroadcast(message); len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	if s.notify.State() != ports.ChannelConnected {
		return domain.ErrChannelDown
	}

	b := ports.Broadcast{
		Message:   message,
		Timestamp: time.Now().UTC(),
		From:      data.Identity.Email,
	}
	if err := s.notify.Send(ctx, b); err != nil {
		return fmt.Errorf("send broadcast: %w", err)
	}

	s.log.Info().Str("from", b.From).Int("length", len(message)).Msg("broadcast sent")
	return nil
}

// newSessionID returns a 128-bit random session identifier in hex.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", b)
}
