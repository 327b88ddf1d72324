package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternalErrorMessage(t *testing.T) {
	err := InternalErrorf(E4001, "assign needs 2 slots, have %d", 0)
	require.Equal(t, "internal error E4001: stack underflow: assign needs 2 slots, have 0", err.Error())
	require.True(t, err.IsFatal())

	bare := NewInternalError(E4002, nil)
	require.Equal(t, "internal error E4002: empty program", bare.Error())
}

func TestInternalErrorMatching(t *testing.T) {
	err := fmt.Errorf("compiling: %w", InternalErrorf(E4003, "got CALL"))
	require.True(t, IsInternal(err))
	require.True(t, stderrors.Is(err, ErrInternal))
	require.True(t, stderrors.Is(err, &InternalError{Code: E4003}))
	require.False(t, stderrors.Is(err, &InternalError{Code: E4001}))
	require.Equal(t, E4003, CodeOf(err))

	require.False(t, IsInternal(stderrors.New("plain")))
	require.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code ErrorCode
		desc string
	}{
		{E4001, "stack underflow"},
		{E4002, "empty program"},
		{E4003, "not an assignment"},
		{E4004, "unknown instruction"},
		{E4005, "invalid arity"},
		{E4006, "verification failed"},
		{ErrorCode("E9999"), "unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			require.Equal(t, tt.desc, tt.code.Description())
		})
	}
	require.Equal(t, "internal", E4004.Category())
	require.Equal(t, "unknown", ErrorCode("X").Category())
}
