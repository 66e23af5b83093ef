// Package errs holds the typed errors shared by every layer of the order service.
//
// Each kind has a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) and a struct carrying
// details. The struct's Unwrap returns the sentinel, so callers classify with errors.Is and
// the HTTP adapter maps the sentinel to a status code:
//
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation, 400/422
//   - ObjectNotFoundError: 404
//   - TransitionNotAllowedError: 409
//   - PersistenceFailedError: 503, retryable
//   - NotificationFailedError: logged only, never surfaced to the customer
package errs
