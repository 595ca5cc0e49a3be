package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type otpKey struct {
	userID  uuid.UUID
	purpose entity.OTPPurpose
}

// memState is the full dataset of memStore. clone gives the snapshot a transaction rolls back to.
type memState struct {
	users      map[uuid.UUID]*entity.User
	auths      map[uuid.UUID]*entity.Authentication
	refresh    map[string]*entity.RefreshToken
	otps       map[otpKey]*entity.OTPRequest
	categories map[uuid.UUID]*entity.Category
	subs       map[uuid.UUID]*entity.SubCategory
	products   map[uuid.UUID]*entity.Product
	carts      map[uuid.UUID]*entity.Cart
	items      map[uuid.UUID]*entity.CartItem
	orders     map[uuid.UUID]*entity.Order
}

func newMemState() *memState {
	return &memState{
		users:      map[uuid.UUID]*entity.User{},
		auths:      map[uuid.UUID]*entity.Authentication{},
		refresh:    map[string]*entity.RefreshToken{},
		otps:       map[otpKey]*entity.OTPRequest{},
		categories: map[uuid.UUID]*entity.Category{},
		subs:       map[uuid.UUID]*entity.SubCategory{},
		products:   map[uuid.UUID]*entity.Product{},
		carts:      map[uuid.UUID]*entity.Cart{},
		items:      map[uuid.UUID]*entity.CartItem{},
		orders:     map[uuid.UUID]*entity.Order{},
	}
}

func cloneMap[K comparable, V any](in map[K]*V) map[K]*V {
	out := make(map[K]*V, len(in))
	for k, v := range in {
		c := *v
		out[k] = &c
	}

	return out
}

func (s *memState) clone() *memState {
	return &memState{
		users:      cloneMap(s.users),
		auths:      cloneMap(s.auths),
		refresh:    cloneMap(s.refresh),
		otps:       cloneMap(s.otps),
		categories: cloneMap(s.categories),
		subs:       cloneMap(s.subs),
		products:   cloneMap(s.products),
		carts:      cloneMap(s.carts),
		items:      cloneMap(s.items),
		orders:     cloneMap(s.orders),
	}
}

// memStore is an in-memory stand-in for the postgres repositories. Transactions are
// serialized and restore a snapshot on error, which is enough to observe rollback.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memState
}

func newMemStore() *memStore {
	return &memStore{data: newMemState()}
}

func (m *memStore) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.data.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.data = snapshot
		m.mu.Unlock()

		return err
	}

	return nil
}

func (m *memStore) UserRepo() repository.UserRepository                 { return memUserRepo{m} }
func (m *memStore) AuthRepo() repository.AuthRepository                 { return memAuthRepo{m} }
func (m *memStore) RefreshTokenRepo() repository.RefreshTokenRepository { return memRefreshRepo{m} }
func (m *memStore) OTPRepo() repository.OTPRepository                   { return memOTPRepo{m} }
func (m *memStore) CategoryRepo() repository.CategoryRepository         { return memCategoryRepo{m} }
func (m *memStore) ProductRepo() repository.ProductRepository           { return memProductRepo{m} }
func (m *memStore) CartRepo() repository.CartRepository                 { return memCartRepo{m} }
func (m *memStore) OrderRepo() repository.OrderRepository               { return memOrderRepo{m} }

// Test helpers reading committed state.

func (m *memStore) product(id uuid.UUID) *entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data.products[id]
	if !ok {
		return nil
	}
	c := *p

	return &c
}

func (m *memStore) hasCart(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data.carts[id]

	return ok
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.data.orders)
}

func (m *memStore) pendingOTP(userID uuid.UUID, purpose entity.OTPPurpose) *entity.OTPRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.data.otps[otpKey{userID, purpose}]
	if !ok {
		return nil
	}
	c := *req

	return &c
}

func (m *memStore) seedUser(user *entity.User) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	c := *user
	m.data.users[user.ID] = &c

	return user
}

func (m *memStore) seedProduct(name string, price string, inventory int) *entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &entity.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      mustDecimal(price),
		Inventory:  inventory,
		CategoryID: uuid.New(),
		CreatedAt:  time.Now(),
	}
	c := *p
	m.data.products[p.ID] = &c

	return p
}

// seedCart stores a cart for owner with one line per product and quantity pair.
func (m *memStore) seedCart(ownerID uuid.UUID, lines map[uuid.UUID]int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := &entity.Cart{ID: uuid.New(), OwnerID: ownerID, CreatedAt: time.Now()}
	m.data.carts[cart.ID] = cart
	for productID, qty := range lines {
		item := &entity.CartItem{ID: uuid.New(), CartID: cart.ID, OwnerID: ownerID, ProductID: productID, Quantity: qty, CreatedAt: time.Now()}
		m.data.items[item.ID] = item
	}

	return cart.ID
}

type memUserRepo struct{ m *memStore }

func (r memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.data.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u

	return &c, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.data.users {
		if strings.EqualFold(u.Email, email) {
			c := *u

			return &c, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	c := *user
	r.m.data.users[user.ID] = &c

	return nil
}

func (r memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	c := *user
	r.m.data.users[user.ID] = &c

	return nil
}

type memAuthRepo struct{ m *memStore }

func (r memAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	auth.ID = uuid.New()
	c := *auth
	r.m.data.auths[auth.UserID] = &c

	return nil
}

func (r memAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.data.auths {
		if a.Provider == provider && strings.EqualFold(a.ProviderUserID, providerUserID) {
			c := *a

			return &c, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r memAuthRepo) FindAuthenticationByUserID(_ context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.data.auths[userID]
	if !ok || a.Provider != provider {
		return nil, repository.ErrAuthNotFound
	}
	c := *a

	return &c, nil
}

func (r memAuthRepo) UpdatePasswordHash(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.data.auths[userID]
	if !ok {
		return repository.ErrAuthNotFound
	}
	a.PasswordHash = passwordHash

	return nil
}

func (r memAuthRepo) UpdateProviderUserID(_ context.Context, userID uuid.UUID, provider, providerUserID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.data.auths[userID]
	if !ok || a.Provider != provider {
		return repository.ErrAuthNotFound
	}
	a.ProviderUserID = providerUserID

	return nil
}

type memRefreshRepo struct{ m *memStore }

func (r memRefreshRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	token.ID = uuid.New()
	c := *token
	r.m.data.refresh[token.TokenHash] = &c

	return nil
}

func (r memRefreshRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.data.refresh[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, repository.ErrRefreshTokenExpired
	}
	c := *t

	return &c, nil
}

func (r memRefreshRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.data.refresh, tokenHash)

	return nil
}

func (r memRefreshRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for hash, t := range r.m.data.refresh {
		if t.UserID == userID {
			delete(r.m.data.refresh, hash)
		}
	}

	return nil
}

func (m *memStore) sessionCount(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.data.refresh {
		if t.UserID == userID {
			n++
		}
	}

	return n
}

type memOTPRepo struct{ m *memStore }

func (r memOTPRepo) Upsert(_ context.Context, req *entity.OTPRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := otpKey{req.UserID, req.Purpose}
	if existing, ok := r.m.data.otps[key]; ok {
		req.ID = existing.ID
	} else if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	c := *req
	r.m.data.otps[key] = &c

	return nil
}

func (r memOTPRepo) FindForUpdate(_ context.Context, userID uuid.UUID, purpose entity.OTPPurpose) (*entity.OTPRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.data.otps[otpKey{userID, purpose}]
	if !ok {
		return nil, repository.ErrOTPRequestNotFound
	}
	c := *req

	return &c, nil
}

func (r memOTPRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for key, req := range r.m.data.otps {
		if req.ID == id {
			delete(r.m.data.otps, key)
		}
	}

	return nil
}

type memCategoryRepo struct{ m *memStore }

func (r memCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.m.data.categories))
	for _, c := range r.m.data.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })

	return out, nil
}

func (r memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.data.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	cp := *c

	return &cp, nil
}

func (r memCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	category.ID = uuid.New()
	cp := *category
	r.m.data.categories[category.ID] = &cp

	return nil
}

func (r memCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	cp := *category
	r.m.data.categories[category.ID] = &cp

	return nil
}

func (r memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	for _, p := range r.m.data.products {
		if p.CategoryID == id {
			return repository.ErrCategoryInUse
		}
	}
	for _, s := range r.m.data.subs {
		if s.CategoryID == id {
			return repository.ErrCategoryInUse
		}
	}
	delete(r.m.data.categories, id)

	return nil
}

func (r memCategoryRepo) ListSubCategories(_ context.Context, categoryID uuid.UUID) ([]*entity.SubCategory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.SubCategory
	for _, s := range r.m.data.subs {
		if s.CategoryID == categoryID {
			cp := *s
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r memCategoryRepo) FindSubCategoryByID(_ context.Context, id uuid.UUID) (*entity.SubCategory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.data.subs[id]
	if !ok {
		return nil, repository.ErrSubCategoryNotFound
	}
	cp := *s

	return &cp, nil
}

func (r memCategoryRepo) CreateSubCategory(_ context.Context, sub *entity.SubCategory) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.categories[sub.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	sub.ID = uuid.New()
	cp := *sub
	r.m.data.subs[sub.ID] = &cp

	return nil
}

func (r memCategoryRepo) UpdateSubCategory(_ context.Context, sub *entity.SubCategory) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.subs[sub.ID]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	cp := *sub
	r.m.data.subs[sub.ID] = &cp

	return nil
}

func (r memCategoryRepo) DeleteSubCategory(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.subs[id]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	delete(r.m.data.subs, id)

	return nil
}

type memProductRepo struct{ m *memStore }

func (r memProductRepo) List(_ context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []*entity.Product
	for _, p := range r.m.data.products {
		if filter.InStockOnly && p.Inventory <= 0 {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Price.LessThan(matched[j].Price) })

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.data.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p

	return &cp, nil
}

func (r memProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := r.FindByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	product.ID = uuid.New()
	cp := *product
	r.m.data.products[product.ID] = &cp

	return nil
}

func (r memProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	r.m.data.products[product.ID] = &cp

	return nil
}

func (r memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.m.data.products, id)

	return nil
}

func (r memProductRepo) DecrementInventory(_ context.Context, id uuid.UUID, qty int) (*entity.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.data.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if p.Inventory < qty {
		return nil, repository.ErrInsufficientStock
	}
	p.Inventory -= qty
	cp := *p

	return &cp, nil
}

type memCartRepo struct{ m *memStore }

func (r memCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cart.ID = uuid.New()
	cart.CreatedAt = time.Now()
	cp := *cart
	cp.Items = nil
	r.m.data.carts[cart.ID] = &cp

	return nil
}

// loadCart assembles the cart with items and products. Callers hold mu.
func (r memCartRepo) loadCart(id uuid.UUID) (*entity.Cart, error) {
	c, ok := r.m.data.carts[id]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cart := *c
	cart.Items = nil
	for _, item := range r.m.data.items {
		if item.CartID != id {
			continue
		}
		cp := *item
		if p, ok := r.m.data.products[item.ProductID]; ok {
			pc := *p
			cp.Product = &pc
		}
		cart.Items = append(cart.Items, &cp)
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].CreatedAt.Before(cart.Items[j].CreatedAt) })

	return &cart, nil
}

func (r memCartRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.loadCart(id)
}

func (r memCartRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	return r.FindByID(ctx, id)
}

func (r memCartRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Cart
	for id, c := range r.m.data.carts {
		if c.OwnerID != ownerID {
			continue
		}
		cart, _ := r.loadCart(id)
		out = append(out, cart)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r memCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.carts[id]; !ok {
		return repository.ErrCartNotFound
	}
	delete(r.m.data.carts, id)
	for itemID, item := range r.m.data.items {
		if item.CartID == id {
			delete(r.m.data.items, itemID)
		}
	}

	return nil
}

func (r memCartRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	item, ok := r.m.data.items[itemID]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	cp := *item
	if p, ok := r.m.data.products[item.ProductID]; ok {
		pc := *p
		cp.Product = &pc
	}

	return &cp, nil
}

func (r memCartRepo) FindItemByProduct(_ context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, item := range r.m.data.items {
		if item.CartID == cartID && item.ProductID == productID {
			cp := *item

			return &cp, nil
		}
	}

	return nil, repository.ErrCartItemNotFound
}

func (r memCartRepo) CreateItem(_ context.Context, item *entity.CartItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.carts[item.CartID]; !ok {
		return repository.ErrCartNotFound
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	cp := *item
	cp.Product = nil
	r.m.data.items[item.ID] = &cp

	return nil
}

func (r memCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	item, ok := r.m.data.items[itemID]
	if !ok {
		return repository.ErrCartItemNotFound
	}
	item.Quantity = quantity

	return nil
}

func (r memCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.items[itemID]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(r.m.data.items, itemID)

	return nil
}

type memOrderRepo struct{ m *memStore }

func (r memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if order.TransactionID != "" {
		for _, o := range r.m.data.orders {
			if o.TransactionID == order.TransactionID {
				return repository.ErrDuplicateTransaction
			}
		}
	}
	order.ID = uuid.New()
	order.PlacedAt = time.Now()
	for _, item := range order.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
	}
	cp := *order
	r.m.data.orders[order.ID] = &cp

	return nil
}

func (r memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.data.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o

	return &cp, nil
}

func (r memOrderRepo) List(_ context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.m.data.orders {
		if filter.OwnerID != nil && o.OwnerID != *filter.OwnerID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}

	return out, nil
}

func (r memOrderRepo) SetDelivered(_ context.Context, id uuid.UUID, delivered bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.data.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Delivered = delivered

	return nil
}

func (r memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.m.data.orders, id)

	return nil
}

// recordingNotifier captures enqueued events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []*service.MailEvent
}

func (n *recordingNotifier) Enqueue(_ context.Context, event *service.MailEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) byKind(kind string) []*service.MailEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*service.MailEvent
	for _, e := range n.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// fixedCodes hands out codes in order, repeating the last one.
type fixedCodes struct {
	mu    sync.Mutex
	codes []string
}

func (g *fixedCodes) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}

	return code, nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
