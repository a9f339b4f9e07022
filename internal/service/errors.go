package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrOutOfStock        = errors.New("out of stock")       // 400
	ErrInvalidSignature  = errors.New("invalid signature")  // 400
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrInvalidTransition = errors.New("invalid transition") // 409
	ErrUpstream          = errors.New("upstream")           // 502
)

// storeErr translates storage errors into the service taxonomy.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repo.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case errors.Is(err, gateway.ErrUpstream):
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return err
}
