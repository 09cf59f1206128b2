// Package state owns the application aggregate. Every mutation flows
// through the Container: it derives a new state value from the previous
// one, stamps identity/tenant/timestamps from the authenticated session,
// pairs the mutation with a notification, and persists the whole
// snapshot before publishing. Presentation code never mutates fields
// directly.
package state

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/observability/metrics"
	"github.com/mfalves/plantledger/internal/security/access"
)

// Container holds the aggregate behind a lock. Reads get a deep copy;
// writers replace the whole value so a persisted snapshot is always
// self-consistent.
type Container struct {
	mu     sync.RWMutex
	st     *domain.AppState
	store  domain.SnapshotStore
	logger *slog.Logger

	subMu   sync.Mutex
	subs    map[int]chan domain.Notification
	nextSub int
}

// NewContainer wraps a loaded aggregate.
func NewContainer(initial *domain.AppState, store domain.SnapshotStore, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		st:     initial,
		store:  store,
		logger: logger,
		subs:   map[int]chan domain.Notification{},
	}
}

// Snapshot returns a deep copy of the current aggregate.
func (c *Container) Snapshot() *domain.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.st.Clone()
}

// Session resolves a user id to the account stored in the aggregate.
func (c *Container) Session(userID string) *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u := c.st.UserByID(userID); u != nil {
		session := *u
		return &session
	}
	return nil
}

// Scoped returns the view visible to the given session user.
func (c *Container) Scoped(session *domain.User) access.ScopedState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return access.ScopeStateFor(c.st, session)
}

// persist writes the snapshot. A failed write is logged but never fails
// the mutation; memory stays the source of truth until the next save.
func (c *Container) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.st); err != nil {
		c.logger.Error("failed to persist snapshot", slog.String("error", err.Error()))
	}
}

// notify appends a notification, trims the list to the retention bound
// and fans it out to stream subscribers.
func (c *Container) notify(severity domain.Severity, format string, args ...any) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   fmt.Sprintf(format, args...),
		CreatedAt: time.Now(),
	}
	c.st.Notifications = append([]domain.Notification{n}, c.st.Notifications...)
	if len(c.st.Notifications) > domain.MaxNotifications {
		c.st.Notifications = c.st.Notifications[:domain.MaxNotifications]
	}
	metrics.SetUnreadNotifications(countUnread(c.st.Notifications))

	c.subMu.Lock()
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default: // slow subscriber, drop rather than block the mutation
		}
	}
	c.subMu.Unlock()
}

func countUnread(list []domain.Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}

// Subscribe registers a notification stream. The returned cancel func
// must be called when the consumer goes away.
func (c *Container) Subscribe() (<-chan domain.Notification, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan domain.Notification, 16)
	c.subs[id] = ch
	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Login authenticates and installs the session user on the aggregate.
func (c *Container) Login(username, password, code string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := access.Authenticate(username, password, code, c.st.Users)
	if err != nil {
		metrics.ObserveLogin("failure")
		return nil, err
	}

	next := c.st.Clone()
	session := *user
	next.CurrentUser = &session
	c.st = next
	c.persist()
	metrics.ObserveLogin("success")
	c.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("tenant", user.PlantationCode),
	)
	return user, nil
}

// Logout clears the session.
func (c *Container) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.st.Clone()
	next.CurrentUser = nil
	c.st = next
	c.persist()
}

// SetOnline flips the connectivity flag.
func (c *Container) SetOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.st.Clone()
	next.Online = online
	c.st = next
	c.persist()
}

// guard enforces the suspension gate shared by every mutation entry
// point: a suspended tenant's session produces a refused no-op.
func (c *Container) guard(session *domain.User) error {
	if session == nil {
		return domain.ErrNotAuthenticated
	}
	if access.IsSuspendedFor(c.st, session) {
		return domain.ErrSuspended
	}
	return nil
}

// CreateActivity appends a stamped activity and emits a SUCCESS
// notification referencing the actor, the operation label and the zone.
func (c *Container) CreateActivity(session *domain.User, in ActivityInput) (*domain.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("activity", "refused")
		return nil, err
	}
	if err := in.validate(); err != nil {
		metrics.ObserveMutation("activity", "invalid")
		return nil, err
	}

	a := domain.Activity{
		ID:             uuid.NewString(),
		PlantationCode: session.PlantationCode,
		Type:           in.Type,
		Name:           strings.TrimSpace(in.Name),
		Date:           in.Date,
		Zone:           strings.TrimSpace(in.Zone),
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		InputQuantity:  in.InputQuantity,
		InputUnit:      in.InputUnit,
		Workers:        append([]string(nil), in.Workers...),
		Cost:           in.Cost,
		Observations:   in.Observations,
		UpdatedAt:      time.Now(),
	}

	next := c.st.Clone()
	next.Activities = append([]domain.Activity{a}, next.Activities...)
	c.st = next
	c.notify(domain.SeveritySuccess, "%s logged %s in zone %s", session.Username, a.Name, a.Zone)
	c.persist()
	metrics.ObserveMutation("activity", "success")
	return &a, nil
}

// CreateSale appends a stamped sale. The total is always recomputed;
// a client-supplied total is ignored. Sales are high-visibility events
// and emit an ALERT notification.
func (c *Container) CreateSale(session *domain.User, in SaleInput) (*domain.Sale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("sale", "refused")
		return nil, err
	}
	if err := in.validate(); err != nil {
		metrics.ObserveMutation("sale", "invalid")
		return nil, err
	}

	s := domain.Sale{
		ID:             uuid.NewString(),
		PlantationCode: session.PlantationCode,
		Date:           in.Date,
		Client:         strings.TrimSpace(in.Client),
		Product:        in.Product,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		Total:          in.Quantity * in.UnitPrice,
		UpdatedAt:      time.Now(),
	}

	next := c.st.Clone()
	next.Sales = append([]domain.Sale{s}, next.Sales...)
	c.st = next
	c.notify(domain.SeverityAlert, "%s registered a sale of %s to %s for %.2f", session.Username, s.Product, s.Client, s.Total)
	c.persist()
	metrics.ObserveMutation("sale", "success")
	return &s, nil
}

// CreateCashMovement appends a stamped cash ledger entry.
func (c *Container) CreateCashMovement(session *domain.User, in CashMovementInput) (*domain.CashMovement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("cash_movement", "refused")
		return nil, err
	}
	if err := in.validate(); err != nil {
		metrics.ObserveMutation("cash_movement", "invalid")
		return nil, err
	}

	m := domain.CashMovement{
		ID:             uuid.NewString(),
		PlantationCode: session.PlantationCode,
		Date:           in.Date,
		Type:           in.Type,
		Amount:         in.Amount,
		Reason:         strings.TrimSpace(in.Reason),
		UpdatedAt:      time.Now(),
	}

	next := c.st.Clone()
	next.CashMovements = append([]domain.CashMovement{m}, next.CashMovements...)
	c.st = next
	c.notify(domain.SeveritySuccess, "%s recorded a cash %s of %.2f", session.Username, strings.ToLower(string(m.Type)), m.Amount)
	c.persist()
	metrics.ObserveMutation("cash_movement", "success")
	return &m, nil
}

// AddUser creates an account. Admins create only inside their own
// tenant; the requested username must not already exist system-wide.
// The uniqueness check is case-sensitive while login matching is not;
// existing installs depend on both sides staying as they are.
func (c *Container) AddUser(session *domain.User, in UserInput) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("add_user", "refused")
		return nil, err
	}
	if session.Role == domain.RoleEmployee {
		metrics.ObserveMutation("add_user", "refused")
		return nil, domain.ErrForbidden
	}
	if err := in.validate(); err != nil {
		metrics.ObserveMutation("add_user", "invalid")
		return nil, err
	}
	for _, u := range c.st.Users {
		if u.Username == in.Username {
			metrics.ObserveMutation("add_user", "invalid")
			return nil, domain.ErrDuplicateUsername
		}
	}

	code := in.PlantationCode
	if !session.IsSuperAdmin() {
		// Admins cannot plant accounts into other tenants.
		code = session.PlantationCode
	}
	if code != domain.SystemTenant && c.st.PlantationByCode(code) == nil {
		metrics.ObserveMutation("add_user", "invalid")
		return nil, domain.Invalid("plantationCode", "unknown plantation")
	}

	u := domain.User{
		ID:             uuid.NewString(),
		Username:       in.Username,
		Role:           in.Role,
		Password:       in.Password,
		PlantationCode: code,
	}

	next := c.st.Clone()
	next.Users = append(next.Users, u)
	c.st = next
	c.notify(domain.SeverityInfo, "%s added user %s (%s)", session.Username, u.Username, u.Role)
	c.persist()
	metrics.ObserveMutation("add_user", "success")
	return &u, nil
}

// RemoveUser deletes an account within the session's tenant. Removing
// the acting session's own account is forbidden.
func (c *Container) RemoveUser(session *domain.User, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("remove_user", "refused")
		return err
	}
	if session.Role == domain.RoleEmployee {
		metrics.ObserveMutation("remove_user", "refused")
		return domain.ErrForbidden
	}
	if userID == session.ID {
		metrics.ObserveMutation("remove_user", "refused")
		return domain.ErrSelfRemoval
	}

	target := c.st.UserByID(userID)
	if target == nil {
		metrics.ObserveMutation("remove_user", "invalid")
		return domain.ErrNotFound
	}
	if !session.IsSuperAdmin() && target.PlantationCode != session.PlantationCode {
		metrics.ObserveMutation("remove_user", "refused")
		return domain.ErrForbidden
	}

	next := c.st.Clone()
	users := next.Users[:0]
	for _, u := range next.Users {
		if u.ID != userID {
			users = append(users, u)
		}
	}
	next.Users = users
	c.st = next
	c.notify(domain.SeverityWarning, "%s removed user %s", session.Username, target.Username)
	c.persist()
	metrics.ObserveMutation("remove_user", "success")
	return nil
}

// UpdateUserCredentials changes the session's own username/password.
func (c *Container) UpdateUserCredentials(session *domain.User, username, password string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(session); err != nil {
		metrics.ObserveMutation("update_credentials", "refused")
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.ObserveMutation("update_credentials", "invalid")
		return nil, domain.Invalid("credentials", "username and password are required")
	}
	for _, u := range c.st.Users {
		if u.ID != session.ID && u.Username == username {
			metrics.ObserveMutation("update_credentials", "invalid")
			return nil, domain.ErrDuplicateUsername
		}
	}

	next := c.st.Clone()
	var updated *domain.User
	for i := range next.Users {
		if next.Users[i].ID == session.ID {
			next.Users[i].Username = username
			next.Users[i].Password = password
			updated = &next.Users[i]
			break
		}
	}
	if updated == nil {
		metrics.ObserveMutation("update_credentials", "invalid")
		return nil, domain.ErrNotFound
	}
	if next.CurrentUser != nil && next.CurrentUser.ID == session.ID {
		next.CurrentUser.Username = username
		next.CurrentUser.Password = password
	}
	c.st = next
	c.notify(domain.SeverityInfo, "%s updated their credentials", username)
	c.persist()
	metrics.ObserveMutation("update_credentials", "success")
	out := *updated
	return &out, nil
}

// AddPlantation provisions a tenant. Super-admin only.
func (c *Container) AddPlantation(session *domain.User, in PlantationInput) (*domain.Plantation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !session.IsSuperAdmin() {
		metrics.ObserveMutation("add_plantation", "refused")
		return nil, domain.ErrForbidden
	}
	if err := in.validate(); err != nil {
		metrics.ObserveMutation("add_plantation", "invalid")
		return nil, err
	}
	if c.st.PlantationByCode(in.Code) != nil {
		metrics.ObserveMutation("add_plantation", "invalid")
		return nil, domain.ErrDuplicateCode
	}

	p := domain.Plantation{
		Code:       in.Code,
		Name:       in.Name,
		Owner:      in.Owner,
		Email:      in.Email,
		Status:     in.Status,
		ExpiryDate: in.ExpiryDate,
	}
	if p.Status == "" {
		p.Status = domain.PlantationTrial
	}

	next := c.st.Clone()
	next.Plantations = append(next.Plantations, p)
	c.st = next
	c.notify(domain.SeveritySuccess, "plantation %s (%s) provisioned", p.Name, p.Code)
	c.persist()
	metrics.ObserveMutation("add_plantation", "success")
	return &p, nil
}

// SetPlantationStatus changes a tenant's lifecycle status and optional
// expiry. Super-admin only; plantations are never deleted.
func (c *Container) SetPlantationStatus(session *domain.User, code string, status domain.PlantationStatus, expiry *time.Time) (*domain.Plantation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !session.IsSuperAdmin() {
		metrics.ObserveMutation("plantation_status", "refused")
		return nil, domain.ErrForbidden
	}
	switch status {
	case domain.PlantationActive, domain.PlantationSuspended, domain.PlantationTrial:
	default:
		metrics.ObserveMutation("plantation_status", "invalid")
		return nil, domain.Invalid("status", "unknown status")
	}

	next := c.st.Clone()
	target := next.PlantationByCode(code)
	if target == nil {
		metrics.ObserveMutation("plantation_status", "invalid")
		return nil, domain.ErrNotFound
	}
	target.Status = status
	if expiry != nil {
		target.ExpiryDate = *expiry
	}
	c.st = next

	severity := domain.SeverityInfo
	if status == domain.PlantationSuspended {
		severity = domain.SeverityWarning
	}
	c.notify(severity, "plantation %s set to %s", code, status)
	c.persist()
	metrics.ObserveMutation("plantation_status", "success")
	out := *target
	return &out, nil
}

// MarkNotificationsRead flags every notification as read.
func (c *Container) MarkNotificationsRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.st.Clone()
	for i := range next.Notifications {
		next.Notifications[i].Read = true
	}
	c.st = next
	metrics.SetUnreadNotifications(0)
	c.persist()
}
