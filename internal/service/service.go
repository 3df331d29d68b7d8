// Package service implements the journal's business rules on top of store.Store.
package service

import (
	"errors"
	"fmt"

	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
	"github.com/journalapp/journal-server/internal/validation"
)

// validate is the shared validator for request structs.
var validate = validation.New()

// storeError translates a store failure into a domain error.
// Not-found becomes NotFound(notFound); integrity failures become a
// validation error carrying the store message. Domain errors pass through.
func storeError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domainerrors.NotFound(notFound).WithCause(err)
		case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, store.ErrInvalidInput):
			return domainerrors.Validation(storeErr.Message).WithCause(err)
		}
	}
	return fmt.Errorf("%s: %w", notFound, err)
}
