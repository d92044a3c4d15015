package booking

// Pricing constants in whole US dollars.
//
// Earlier revisions of the price sheet used a $10 fee and applied it to both
// service types; the canonical rule is now a $15 fee charged only when we do
// the pickup and delivery run.
const (
	// PricePerBag is the flat wrapping price per gift bag.
	PricePerBag int64 = 35
	// DeliveryFee is the flat surcharge for the pickup/delivery run.
	DeliveryFee int64 = 15
)

// ComputeTotal returns the estimated total for a booking in whole dollars.
//
//	total = bagCount * PricePerBag + (DeliveryFee if the service type requires delivery)
//
// Bag count validation is the caller's concern; totals are always recomputed
// server-side and never taken from the client.
func ComputeTotal(bagCount int, serviceType ServiceType) int64 {
	total := int64(bagCount) * PricePerBag
	if serviceType.RequiresDelivery() {
		total += DeliveryFee
	}
	return total
}
