package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// StripeGateway implements Gateway against Stripe Checkout.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	siteURL       string
}

// NewStripeGateway creates a StripeGateway. siteURL is the public site the
// customer returns to after checkout.
func NewStripeGateway(secretKey, webhookSecret, siteURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		siteURL:       siteURL,
	}
}

// CreateCheckoutSession starts a hosted Stripe Checkout session with the
// booking ID embedded as metadata. Stripe amounts are in cents.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	lineItems := []*stripe.CheckoutSessionLineItemParams{
		{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(req.PerBagAmount * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Gift Wrapping Service"),
					Description: stripe.String(fmt.Sprintf("Professional gift wrapping for %d bag(s)", req.BagCount)),
				},
			},
			Quantity: stripe.Int64(int64(req.BagCount)),
		},
	}
	if req.DeliveryFee > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(req.DeliveryFee * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Pickup/Delivery Fee"),
					Description: stripe.String("Pickup and delivery service"),
				},
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&booking=%s", g.siteURL, req.BookingID)),
		CancelURL:          stripe.String(fmt.Sprintf("%s/cancel?booking=%s", g.siteURL, req.BookingID)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", req.BookingID.String())

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event.
func (g *StripeGateway) ConstructEvent(payload []byte, signatureHeader string) (Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	evt := Event{Type: string(stripeEvent.Type), Kind: EventIgnored}
	switch stripeEvent.Type {
	case "checkout.session.completed":
		evt.Kind = EventCheckoutCompleted
	case "checkout.session.expired":
		evt.Kind = EventCheckoutExpired
	default:
		return evt, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
		return Event{}, fmt.Errorf("failed to decode checkout session payload: %w", err)
	}
	evt.SessionID = sess.ID
	evt.BookingID = sess.Metadata["booking_id"]
	return evt, nil
}
