package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/giftwrap-jax/service-booking/internal/application"
	"github.com/giftwrap-jax/service-booking/internal/domain"
	bookingDomain "github.com/giftwrap-jax/service-booking/internal/domain/booking"
	"github.com/giftwrap-jax/service-booking/internal/events"
	"github.com/giftwrap-jax/service-booking/internal/payment"
)

const testWebhookSecret = "whsec_test_secret"

// memBookingRepo is the minimal in-memory repository the webhook path needs.
type memBookingRepo struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
	updates  int
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *memBookingRepo) FindByCheckoutSessionID(_ context.Context, sessionID string) (*bookingDomain.Booking, error) {
	for _, bk := range r.bookings {
		if bk.CheckoutSessionID() == sessionID {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", sessionID)
}

func (r *memBookingRepo) List(_ context.Context, criteria bookingDomain.ListCriteria) ([]*bookingDomain.Booking, error) {
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

func (r *memBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.bookings[bk.ID()] = bk
	r.updates++
	return nil
}

// stripeSignature computes a Stripe-Signature header over payload, the same
// HMAC-SHA256 over "<timestamp>.<payload>" the verifier recomputes.
func stripeSignature(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func checkoutEventPayload(eventType string, sessionID string, bookingID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "2024-06-20",
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"object": "checkout.session",
				"metadata": {"booking_id": %q}
			}
		}
	}`, eventType, sessionID, bookingID))
}

func newWebhookTestServer(t *testing.T) (*gin.Engine, *memBookingRepo, *bookingDomain.Booking) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bk, err := bookingDomain.NewBooking(
		"Jane Doe", "jane@example.com", "9045550123",
		&bookingDomain.Address{Line1: "123 Oak St", City: "Jacksonville", State: "FL", Zip: "32222"},
		bookingDomain.ServiceTypePickupDelivery,
		time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		bookingDomain.TimeWindowMorning,
		2,
		bookingDomain.PaymentMethodCard,
		"",
	)
	require.NoError(t, err)
	require.NoError(t, bk.AttachCheckoutSession("cs_test_hook"))

	repo := &memBookingRepo{bookings: map[uuid.UUID]*bookingDomain.Booking{bk.ID(): bk}}
	gateway := payment.NewStripeGateway("sk_test_x", testWebhookSecret, "https://example.com")
	svc := application.NewBookingService(repo, gateway, events.NopPublisher{}, zap.NewNop())

	engine := gin.New()
	NewWebhookHandler(svc, gateway, zap.NewNop()).RegisterRoutes(engine.Group(""))
	return engine, repo, bk
}

func postWebhook(engine *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestStripeWebhook_CompletedEventMarksBookingPaid(t *testing.T) {
	engine, repo, bk := newWebhookTestServer(t)

	payload := checkoutEventPayload("checkout.session.completed", "cs_test_hook", bk.ID())
	rec := postWebhook(engine, payload, stripeSignature(testWebhookSecret, payload, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	assert.Equal(t, bookingDomain.StatusPaid, repo.bookings[bk.ID()].Status())
}

func TestStripeWebhook_ExpiredEventCancelsBooking(t *testing.T) {
	engine, repo, bk := newWebhookTestServer(t)

	payload := checkoutEventPayload("checkout.session.expired", "cs_test_hook", bk.ID())
	rec := postWebhook(engine, payload, stripeSignature(testWebhookSecret, payload, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingDomain.StatusCanceled, repo.bookings[bk.ID()].Status())
}

func TestStripeWebhook_InvalidSignatureRejectedWithoutStateChange(t *testing.T) {
	engine, repo, bk := newWebhookTestServer(t)

	payload := checkoutEventPayload("checkout.session.completed", "cs_test_hook", bk.ID())
	rec := postWebhook(engine, payload, stripeSignature("whsec_wrong_secret", payload, time.Now()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, bookingDomain.StatusPendingPayment, repo.bookings[bk.ID()].Status())
	assert.Equal(t, 0, repo.updates)
}

func TestStripeWebhook_MissingSignatureRejected(t *testing.T) {
	engine, repo, bk := newWebhookTestServer(t)

	payload := checkoutEventPayload("checkout.session.completed", "cs_test_hook", bk.ID())
	rec := postWebhook(engine, payload, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, bookingDomain.StatusPendingPayment, repo.bookings[bk.ID()].Status())
}

func TestStripeWebhook_StaleSignatureRejected(t *testing.T) {
	engine, _, bk := newWebhookTestServer(t)

	// Stripe's verifier enforces a timestamp tolerance against replays.
	payload := checkoutEventPayload("checkout.session.completed", "cs_test_hook", bk.ID())
	stale := time.Now().Add(-time.Hour)
	rec := postWebhook(engine, payload, stripeSignature(testWebhookSecret, payload, stale))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStripeWebhook_UnhandledEventTypeAcked(t *testing.T) {
	engine, repo, bk := newWebhookTestServer(t)

	payload := []byte(`{"id": "evt_test_2", "object": "event", "type": "invoice.paid", "data": {"object": {}}}`)
	rec := postWebhook(engine, payload, stripeSignature(testWebhookSecret, payload, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingDomain.StatusPendingPayment, repo.bookings[bk.ID()].Status())
}

func TestStripeWebhook_UnknownBookingAcked(t *testing.T) {
	engine, repo, _ := newWebhookTestServer(t)

	payload := checkoutEventPayload("checkout.session.completed", "cs_unknown", uuid.New())
	rec := postWebhook(engine, payload, stripeSignature(testWebhookSecret, payload, time.Now()))

	// Post-verification failures are always acknowledged so the provider
	// does not hammer us with redeliveries.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, repo.updates)
}
