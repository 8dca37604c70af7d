package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/models"
	"github.com/crabstertechnology/EZCirkit/pkg/cache"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (r *fakeProductRepo) List(_ context.Context) ([]*models.Product, error) {
	out := make([]*models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) (string, error) {
	id := fmt.Sprintf("prod-%d", len(r.products)+1)
	p.ID = id
	r.products[id] = p
	return id, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return db.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeCartRepo struct {
	mu         sync.Mutex
	carts      map[string]map[string]*models.CartItem
	clearCalls int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]map[string]*models.CartItem)}
}

func (r *fakeCartRepo) lines(userID string) map[string]*models.CartItem {
	if r.carts[userID] == nil {
		r.carts[userID] = make(map[string]*models.CartItem)
	}
	return r.carts[userID]
}

func (r *fakeCartRepo) List(_ context.Context, userID string) ([]*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.CartItem, 0)
	for _, item := range r.lines(userID) {
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCartRepo) GetItem(_ context.Context, userID, productID string) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lines(userID)[productID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCartRepo) Increment(_ context.Context, userID string, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.lines(userID)
	if existing, ok := lines[item.ID]; ok {
		existing.Quantity++
		return nil
	}
	copied := *item
	copied.Quantity = 1
	lines[item.ID] = &copied
	return nil
}

func (r *fakeCartRepo) Decrement(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lines(userID)[productID]
	if !ok {
		return db.ErrNotFound
	}
	item.Quantity--
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines(userID), productID)
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls++
	r.carts[userID] = make(map[string]*models.CartItem)
	return nil
}

type fakeAddressRepo struct {
	addresses map[string]map[string]*models.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[string]map[string]*models.Address)}
}

func (r *fakeAddressRepo) byUser(userID string) map[string]*models.Address {
	if r.addresses[userID] == nil {
		r.addresses[userID] = make(map[string]*models.Address)
	}
	return r.addresses[userID]
}

func (r *fakeAddressRepo) Create(_ context.Context, userID string, a *models.Address) (string, error) {
	id := fmt.Sprintf("addr-%d", len(r.byUser(userID))+1)
	a.ID = id
	r.byUser(userID)[id] = a
	return id, nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, userID, addressID string) (*models.Address, error) {
	a, ok := r.byUser(userID)[addressID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAddressRepo) List(_ context.Context, userID string) ([]*models.Address, error) {
	out := make([]*models.Address, 0)
	for _, a := range r.byUser(userID) {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAddressRepo) Update(_ context.Context, userID string, a *models.Address) error {
	if _, ok := r.byUser(userID)[a.ID]; !ok {
		return db.ErrNotFound
	}
	r.byUser(userID)[a.ID] = a
	return nil
}

func (r *fakeAddressRepo) Delete(_ context.Context, userID, addressID string) error {
	if _, ok := r.byUser(userID)[addressID]; !ok {
		return db.ErrNotFound
	}
	delete(r.byUser(userID), addressID)
	return nil
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[string][]*models.Order
	items    map[string][]*models.OrderItem
	products *fakeProductRepo
	captures *fakeCaptureRepo
	// commitErr, when set, makes Commit fail without any side effect.
	commitErr error
	seq       int
}

func newFakeOrderRepo(products *fakeProductRepo, captures *fakeCaptureRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[string][]*models.Order),
		items:    make(map[string][]*models.OrderItem),
		products: products,
		captures: captures,
	}
}

func (r *fakeOrderRepo) Commit(_ context.Context, order *models.Order, items []*models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return r.commitErr
	}
	if r.products != nil {
		for _, item := range items {
			p, ok := r.products.products[item.ProductID]
			if !ok {
				return db.ErrNotFound
			}
			if p.Stock < item.Quantity {
				return db.ErrInsufficientStock
			}
		}
		for _, item := range items {
			r.products.products[item.ProductID].Stock -= item.Quantity
		}
	}
	r.seq++
	order.ID = fmt.Sprintf("order-%d", r.seq)
	order.CreatedAt = time.Now()
	for i, item := range items {
		item.ID = fmt.Sprintf("%s-item-%d", order.ID, i+1)
		item.OrderID = order.ID
	}
	r.orders[order.UserID] = append(r.orders[order.UserID], order)
	r.items[order.ID] = items
	if r.captures != nil {
		if capture, ok := r.captures.captures[order.PaymentID]; ok {
			capture.Status = models.CaptureStatusConsumed
			capture.OrderID = order.ID
		}
	}
	return nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, len(r.orders[userID]))
	copy(out, r.orders[userID])
	return out, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, userID, orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders[userID] {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeOrderRepo) ListItems(_ context.Context, _, orderID string) ([]*models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[orderID], nil
}

func (r *fakeOrderRepo) HasPaidOrder(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders[userID] {
		if o.Status == models.OrderStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, userID, orderID string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders[userID] {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return db.ErrNotFound
}

type fakeCaptureRepo struct {
	captures map[string]*models.PaymentCapture
	flagErr  error
}

func newFakeCaptureRepo() *fakeCaptureRepo {
	return &fakeCaptureRepo{captures: make(map[string]*models.PaymentCapture)}
}

func (r *fakeCaptureRepo) Create(_ context.Context, capture *models.PaymentCapture) error {
	if _, ok := r.captures[capture.PaymentID]; ok {
		return db.ErrAlreadyExists
	}
	capture.CreatedAt = time.Now()
	r.captures[capture.PaymentID] = capture
	return nil
}

func (r *fakeCaptureRepo) GetByID(_ context.Context, paymentID string) (*models.PaymentCapture, error) {
	capture, ok := r.captures[paymentID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return capture, nil
}

func (r *fakeCaptureRepo) ListStale(_ context.Context, cutoff time.Time) ([]*models.PaymentCapture, error) {
	out := make([]*models.PaymentCapture, 0)
	for _, capture := range r.captures {
		if capture.Status == models.CaptureStatusCaptured && capture.CreatedAt.Before(cutoff) {
			out = append(out, capture)
		}
	}
	return out, nil
}

func (r *fakeCaptureRepo) Flag(_ context.Context, paymentID string) error {
	if r.flagErr != nil {
		return r.flagErr
	}
	capture, ok := r.captures[paymentID]
	if !ok {
		return db.ErrNotFound
	}
	capture.Status = models.CaptureStatusFlagged
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews map[string][]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string][]*models.Review)}
}

func (r *fakeReviewRepo) List(_ context.Context, productID string) ([]*models.Review, error) {
	return r.reviews[productID], nil
}

func (r *fakeReviewRepo) Create(_ context.Context, productID string, review *models.Review) (string, error) {
	id := fmt.Sprintf("review-%d", len(r.reviews[productID])+1)
	review.ID = id
	r.reviews[productID] = append(r.reviews[productID], review)
	return id, nil
}

func (r *fakeReviewRepo) HasUserReview(_ context.Context, productID, userID string) (bool, error) {
	for _, review := range r.reviews[productID] {
		if review.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTutorialRepo struct {
	chapters  map[string]*models.TutorialChapter
	tutorials map[string]map[string]*models.Tutorial
	seq       int
}

func newFakeTutorialRepo() *fakeTutorialRepo {
	return &fakeTutorialRepo{
		chapters:  make(map[string]*models.TutorialChapter),
		tutorials: make(map[string]map[string]*models.Tutorial),
	}
}

func (r *fakeTutorialRepo) ListChapters(_ context.Context) ([]*models.TutorialChapter, error) {
	out := make([]*models.TutorialChapter, 0, len(r.chapters))
	for _, ch := range r.chapters {
		copied := *ch
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTutorialRepo) GetChapter(_ context.Context, chapterID string) (*models.TutorialChapter, error) {
	ch, ok := r.chapters[chapterID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *ch
	return &copied, nil
}

func (r *fakeTutorialRepo) CreateChapter(_ context.Context, ch *models.TutorialChapter) (string, error) {
	r.seq++
	id := fmt.Sprintf("chapter-%d", r.seq)
	ch.ID = id
	r.chapters[id] = ch
	r.tutorials[id] = make(map[string]*models.Tutorial)
	return id, nil
}

func (r *fakeTutorialRepo) UpdateChapter(_ context.Context, ch *models.TutorialChapter) error {
	if _, ok := r.chapters[ch.ID]; !ok {
		return db.ErrNotFound
	}
	r.chapters[ch.ID] = ch
	return nil
}

func (r *fakeTutorialRepo) DeleteChapter(_ context.Context, chapterID string) error {
	if _, ok := r.chapters[chapterID]; !ok {
		return db.ErrNotFound
	}
	delete(r.chapters, chapterID)
	delete(r.tutorials, chapterID)
	return nil
}

func (r *fakeTutorialRepo) CountTutorials(_ context.Context, chapterID string) (int, error) {
	return len(r.tutorials[chapterID]), nil
}

func (r *fakeTutorialRepo) ListTutorials(_ context.Context, chapterID string) ([]*models.Tutorial, error) {
	out := make([]*models.Tutorial, 0, len(r.tutorials[chapterID]))
	for _, t := range r.tutorials[chapterID] {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTutorialRepo) GetTutorial(_ context.Context, chapterID, tutorialID string) (*models.Tutorial, error) {
	t, ok := r.tutorials[chapterID][tutorialID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTutorialRepo) CreateTutorial(_ context.Context, chapterID string, t *models.Tutorial) (string, error) {
	if r.tutorials[chapterID] == nil {
		r.tutorials[chapterID] = make(map[string]*models.Tutorial)
	}
	r.seq++
	id := fmt.Sprintf("tutorial-%d", r.seq)
	t.ID = id
	r.tutorials[chapterID][id] = t
	return id, nil
}

func (r *fakeTutorialRepo) UpdateTutorial(_ context.Context, chapterID string, t *models.Tutorial) error {
	if _, ok := r.tutorials[chapterID][t.ID]; !ok {
		return db.ErrNotFound
	}
	r.tutorials[chapterID][t.ID] = t
	return nil
}

func (r *fakeTutorialRepo) DeleteTutorial(_ context.Context, chapterID, tutorialID string) error {
	if _, ok := r.tutorials[chapterID][tutorialID]; !ok {
		return db.ErrNotFound
	}
	delete(r.tutorials[chapterID], tutorialID)
	return nil
}

type fakeGateway struct {
	createErr error
	lastOrder *gateway.Order
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency string) (*gateway.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastOrder = &gateway.Order{
		ID:       "gw-order-1",
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}
	return g.lastOrder, nil
}

type publishedMessage struct {
	queue string
	body  []byte
}

type fakeQueue struct {
	published []publishedMessage
}

func (q *fakeQueue) Publish(queueName string, body []byte) error {
	q.published = append(q.published, publishedMessage{queue: queueName, body: body})
	return nil
}

func (q *fakeQueue) Consume(string, func(body []byte)) error { return nil }

func (q *fakeQueue) Close() error { return nil }

type fakeCache struct {
	values map[string]string
	gets   int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(key string) (string, error) {
	c.gets++
	val, ok := c.values[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) error {
	c.sets++
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.values, key)
	return nil
}

func (c *fakeCache) Close() error { return nil }
