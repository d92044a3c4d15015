package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/giftwrap-jax/service-booking/internal/domain"
	bookingDomain "github.com/giftwrap-jax/service-booking/internal/domain/booking"
	waitlistDomain "github.com/giftwrap-jax/service-booking/internal/domain/waitlist"
	"github.com/giftwrap-jax/service-booking/internal/events"
	"github.com/giftwrap-jax/service-booking/internal/payment"
)

// fakeBookingRepo is an in-memory BookingRepository for service tests.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	updates  int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByCheckoutSessionID(_ context.Context, sessionID string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.CheckoutSessionID() != "" && bk.CheckoutSessionID() == sessionID {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", sessionID)
}

func (r *fakeBookingRepo) List(_ context.Context, criteria bookingDomain.ListCriteria) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if criteria.Matches(bk) {
			out = append(out, bk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date().Equal(out[j].Date()) {
			return out[i].Date().Before(out[j].Date())
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	r.updates++
	return nil
}

func (r *fakeBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// fakeGateway is a scriptable payment.Gateway.
type fakeGateway struct {
	session   payment.CheckoutSession
	createErr error
	lastReq   payment.CheckoutRequest
	calls     int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.calls++
	g.lastReq = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	s := g.session
	return &s, nil
}

func (g *fakeGateway) ConstructEvent(_ []byte, _ string) (payment.Event, error) {
	return payment.Event{}, nil
}

// recordingPublisher captures published CloudEvents.
type recordingPublisher struct {
	mu        sync.Mutex
	published []events.CloudEvent
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, event events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.Type
	}
	return out
}

// fakeWaitlistRepo is an in-memory WaitlistRepository.
type fakeWaitlistRepo struct {
	entries []*waitlistDomain.Entry
}

func (r *fakeWaitlistRepo) ExistsByContact(_ context.Context, email, phone string) (bool, error) {
	for _, e := range r.entries {
		if email != "" && e.Email() == email {
			return true, nil
		}
		if phone != "" && e.Phone() == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWaitlistRepo) ListAll(_ context.Context) ([]*waitlistDomain.Entry, error) {
	out := make([]*waitlistDomain.Entry, len(r.entries))
	for i, e := range r.entries {
		out[len(r.entries)-1-i] = e
	}
	return out, nil
}

func (r *fakeWaitlistRepo) Save(_ context.Context, entry *waitlistDomain.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

// fakeSettingsRepo is an in-memory SettingsRepository.
type fakeSettingsRepo struct {
	values map[string]string
	getErr error
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (string, error) {
	if r.getErr != nil {
		return "", r.getErr
	}
	v, ok := r.values[key]
	if !ok {
		return "", domain.NewNotFoundError("SiteSetting", key)
	}
	return v, nil
}

func (r *fakeSettingsRepo) Set(_ context.Context, key, value string) error {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[key] = value
	return nil
}
