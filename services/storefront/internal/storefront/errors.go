package storefront

import (
	"errors"

	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOutOfStock        = errors.New("item is out of stock")
	// ErrStoreUnavailable is returned by writes whose collection could not
	// be read.
	ErrStoreUnavailable = kvstore.ErrUnavailable
)
