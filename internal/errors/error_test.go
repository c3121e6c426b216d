package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "sentinel", err: ErrCartNotFound, expected: KindNotFound},
		{name: "wrapped sentinel", err: Wrap(ErrInsufficientStock, "available %d", 3), expected: KindBadRequest},
		{
			name:     "sentinel behind fmt wrap",
			err:      fmt.Errorf("failed checkout with error=%w", ErrEmptyCart),
			expected: KindIllegalState,
		},
		{name: "plain error", err: errors.New("boom"), expected: KindUnknown},
		{name: "nil", err: nil, expected: KindUnknown},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, KindOf(test.err))
		})
	}
}

func TestWrapMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("outer with error=%w", Wrap(ErrProductNotFound, "productId=%d", 9))

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NotErrorIs(t, err, ErrCartNotFound)
	assert.Equal(t, "product not found: productId=9", Message(err))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "insufficient stock", Message(fmt.Errorf("failed with error=%w", ErrInsufficientStock)))
	assert.Equal(t, "order id 3 is gone", Message(NotFound("order id %d is gone", 3)))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
