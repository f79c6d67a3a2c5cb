package store

import "errors"

var (
	// ErrNotSignedIn is returned by operations that need a current user.
	ErrNotSignedIn = errors.New("store: no user signed in")

	// ErrEmptyCart is returned by CreateOrder when the cart has no items.
	ErrEmptyCart = errors.New("store: cart is empty")
)

// rejection is implemented by backend errors for requests the service
// answered and refused, as opposed to requests that never got an answer.
type rejection interface {
	Rejected() bool
}

func isRejected(err error) bool {
	var r rejection
	return errors.As(err, &r) && r.Rejected()
}
