package booking

import (
	"fmt"
	"time"
)

// ListFilter is the admin listing filter vocabulary. Two admin surfaces grew
// slightly different vocabularies ("week" vs "thisWeek", "paid" vs
// "completed"); both spellings are accepted and mean the same buckets.
type ListFilter string

const (
	FilterAll        ListFilter = "all"
	FilterToday      ListFilter = "today"
	FilterWeek       ListFilter = "week"
	FilterThisWeek   ListFilter = "thisWeek"
	FilterNext7Days  ListFilter = "next7days"
	FilterNext30Days ListFilter = "next30days"
	FilterUpcoming   ListFilter = "upcoming"
	FilterPast       ListFilter = "past"
	FilterPending    ListFilter = "pending"
	FilterPaid       ListFilter = "paid"
	FilterCompleted  ListFilter = "completed"
	FilterCanceled   ListFilter = "canceled"
)

var validFilters = map[ListFilter]struct{}{
	FilterAll: {}, FilterToday: {}, FilterWeek: {}, FilterThisWeek: {},
	FilterNext7Days: {}, FilterNext30Days: {}, FilterUpcoming: {},
	FilterPast: {}, FilterPending: {}, FilterPaid: {}, FilterCompleted: {},
	FilterCanceled: {},
}

// ParseListFilter converts a query-string value to a ListFilter. The empty
// string means "all".
func ParseListFilter(s string) (ListFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := ListFilter(s)
	if _, ok := validFilters[f]; !ok {
		return "", fmt.Errorf("invalid filter: %s", s)
	}
	return f, nil
}

// ListCriteria is a filter resolved against a clock: a status set and an
// inclusive calendar-date range, either of which may be empty/open.
type ListCriteria struct {
	Statuses []BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// Criteria resolves the filter's date buckets against now. "week" runs from
// today through the coming Sunday, never reaching back before today;
// "upcoming" is today and later, "past" strictly before today.
func (f ListFilter) Criteria(now time.Time) ListCriteria {
	today := truncateToDate(now)

	switch f {
	case FilterToday:
		return ListCriteria{DateFrom: &today, DateTo: &today}
	case FilterWeek, FilterThisWeek:
		sunday := today.AddDate(0, 0, 7-int(today.Weekday()))
		return ListCriteria{DateFrom: &today, DateTo: &sunday}
	case FilterNext7Days:
		end := today.AddDate(0, 0, 7)
		return ListCriteria{DateFrom: &today, DateTo: &end}
	case FilterNext30Days:
		end := today.AddDate(0, 0, 30)
		return ListCriteria{DateFrom: &today, DateTo: &end}
	case FilterUpcoming:
		return ListCriteria{DateFrom: &today}
	case FilterPast:
		yesterday := today.AddDate(0, 0, -1)
		return ListCriteria{DateTo: &yesterday}
	case FilterPending:
		return ListCriteria{Statuses: []BookingStatus{StatusPendingPayment, StatusAwaitingOffline}}
	case FilterPaid, FilterCompleted:
		return ListCriteria{Statuses: []BookingStatus{StatusPaid}}
	case FilterCanceled:
		return ListCriteria{Statuses: []BookingStatus{StatusCanceled}}
	default:
		return ListCriteria{}
	}
}

// Matches reports whether a booking falls inside the criteria. Repositories
// translate criteria to queries; this is the reference semantics.
func (c ListCriteria) Matches(b *Booking) bool {
	if len(c.Statuses) > 0 {
		found := false
		for _, s := range c.Statuses {
			if b.Status() == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.DateFrom != nil && b.Date().Before(*c.DateFrom) {
		return false
	}
	if c.DateTo != nil && b.Date().After(*c.DateTo) {
		return false
	}
	return true
}
