package store

import "strings"

// OrderStatus values are also their display labels.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var forwardFlow = []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusCompleted}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) Valid() bool {
	return s == StatusCancelled || s.flowIndex() >= 0
}

// Terminal reports whether no further transition exists.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active orders still need kitchen work.
func (s OrderStatus) Active() bool {
	return s.Valid() && !s.Terminal()
}

func (s OrderStatus) flowIndex() int {
	for i, f := range forwardFlow {
		if f == s {
			return i
		}
	}
	return -1
}

// Next returns the single forward step. ok is false for COMPLETED,
// CANCELLED and unknown values.
func Next(current OrderStatus) (OrderStatus, bool) {
	i := current.flowIndex()
	if i < 0 || i == len(forwardFlow)-1 {
		return "", false
	}
	return forwardFlow[i+1], true
}

// CanCancel reports whether CancelOrder is legal from current.
func CanCancel(current OrderStatus) bool {
	return current == StatusPending
}

// ParseStatus accepts any case.
func ParseStatus(v string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// ShortID is the upper-cased last four characters of an order id.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return strings.ToUpper(string(r))
}
