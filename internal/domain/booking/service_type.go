package booking

import "fmt"

// ServiceType distinguishes who handles transport of the gift bags.
type ServiceType string

const (
	// ServiceTypePickupDelivery means we collect the bags and deliver the
	// wrapped gifts back to the customer's address.
	ServiceTypePickupDelivery ServiceType = "pickup_delivery"
	// ServiceTypeDropoffPickup means the customer drops bags off and picks
	// the wrapped gifts up themselves.
	ServiceTypeDropoffPickup ServiceType = "dropoff_pickup"
)

// IsValid returns true if the service type is recognized.
func (t ServiceType) IsValid() bool {
	return t == ServiceTypePickupDelivery || t == ServiceTypeDropoffPickup
}

// RequiresDelivery returns true if the service type carries the delivery fee.
func (t ServiceType) RequiresDelivery() bool {
	return t == ServiceTypePickupDelivery
}

// RequiresAddress returns true if the service type needs a customer address.
func (t ServiceType) RequiresAddress() bool {
	return t == ServiceTypePickupDelivery
}

// ParseServiceType converts a string to a ServiceType, returning an error if invalid.
func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid service type: %s", s)
	}
	return t, nil
}

// TimeWindow is the customer's preferred slot on the requested date.
// The empty value means "any time".
type TimeWindow string

const (
	TimeWindowAny       TimeWindow = ""
	TimeWindowMorning   TimeWindow = "morning"
	TimeWindowAfternoon TimeWindow = "afternoon"
	TimeWindowEvening   TimeWindow = "evening"
)

// IsValid returns true if the time window is recognized (including unset).
func (w TimeWindow) IsValid() bool {
	switch w {
	case TimeWindowAny, TimeWindowMorning, TimeWindowAfternoon, TimeWindowEvening:
		return true
	}
	return false
}

// PaymentMethod is how the customer settles the booking.
type PaymentMethod string

const (
	// PaymentMethodCard is an online card checkout through the payment provider.
	PaymentMethodCard PaymentMethod = "card"
	// PaymentMethodOffline is settled outside the checkout flow at service completion.
	PaymentMethodOffline PaymentMethod = "offline"
)

// IsValid returns true if the payment method is recognized.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCard || m == PaymentMethodOffline
}

// ParsePaymentMethod converts a string to a PaymentMethod, returning an error if invalid.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid payment method: %s", s)
	}
	return m, nil
}
