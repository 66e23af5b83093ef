package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without_cause_prints_id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "7c4e")

		assert.Equal(t, "orderId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 7c4e", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with_cause_prints_param_and_cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundErrorWithCause("orderNumber", "ORD-12345678", errors.New("no rows"))

		assert.Equal(t,
			"object not found: param is: orderNumber, ID is: ORD-12345678 (cause: no rows)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("paymentMethod")

		assert.Equal(t, "value is invalid: paymentMethod", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with_cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("shipped is not a valid status"))

		assert.Equal(t, "value is invalid: status (cause: shipped is not a valid status)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 150, 1, 99)

		assert.Equal(t, 150, err.Value)
		assert.Equal(t, "value is invalid: 150 is quantity, min value is 1, max value is 99", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("with_cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("quantity", -5, 1, 99, errors.New("negative"))

		assert.Equal(t,
			"value is invalid: -5 is quantity, min value is 1, max value is 99 (cause: negative)",
			err.Error())
	})

	t.Run("newlines_are_flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "ring\nthe bell", 0, 10)

		assert.Contains(t, err.Error(), "ring the bell")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("customerName")
	assert.Equal(t, "value is required: customerName", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	withCause := errs.NewValueIsRequiredErrorWithCause("lines", errors.New("cart is empty"))
	assert.Equal(t, "value is required: lines (cause: cart is empty)", withCause.Error())
}

func TestPersistenceFailedError(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.NewPersistenceFailedError("create order", cause)

	assert.Equal(t, "persistence failed: create order (cause: connection reset)", err.Error())
	require.ErrorIs(t, err, errs.ErrPersistenceFailed)
	assert.True(t, errs.IsRetryable(err))
	assert.True(t, errs.IsRetryable(fmt.Errorf("handler: %w", err)))
}

func TestNotificationFailedError(t *testing.T) {
	err := errs.NewNotificationFailedError("sms", errors.New("401 unauthorized"))

	assert.Equal(t, "notification failed: sms (cause: 401 unauthorized)", err.Error())
	require.ErrorIs(t, err, errs.ErrNotificationFailed)
	assert.False(t, errs.IsRetryable(err))
}

func TestTransitionNotAllowedError(t *testing.T) {
	err := errs.NewTransitionNotAllowedError("delivered", "pending")

	assert.Equal(t, "transition is not allowed: delivered -> pending", err.Error())
	require.ErrorIs(t, err, errs.ErrTransitionNotAllowed)
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "persistence failed", errs.ErrPersistenceFailed.Error())
	assert.Equal(t, "notification failed", errs.ErrNotificationFailed.Error())
	assert.Equal(t, "transition is not allowed", errs.ErrTransitionNotAllowed.Error())
}

func TestIsRetryable_PlainErrors(t *testing.T) {
	assert.False(t, errs.IsRetryable(nil))
	assert.False(t, errs.IsRetryable(errors.New("boom")))
	assert.False(t, errs.IsRetryable(errs.NewValueIsRequiredError("id")))
}
