package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnexpectedBitCountErrorMatching(t *testing.T) {
	err := fmt.Errorf("decoding track: %w", &UnexpectedBitCountError{Expected: 43, Actual: 16})

	require.ErrorIs(t, err, ErrUnexpectedBitCount)

	var bitCountErr *UnexpectedBitCountError
	require.ErrorAs(t, err, &bitCountErr)
	require.Equal(t, uint64(43), bitCountErr.Expected)
	require.Equal(t, uint64(16), bitCountErr.Actual)
	require.Equal(t, "unexpected bits per entry: expected 43, got 16", bitCountErr.Error())
}

func TestBufferOffsetOutOfRangeErrorMatching(t *testing.T) {
	err := &BufferOffsetOutOfRangeError{Start: 8, End: 24, BufferSize: 16}

	require.ErrorIs(t, err, ErrBufferOffsetOutOfRange)
	require.Equal(t, "byte offset range 8..24 is out of range for a buffer of size 16", err.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrMalformedCompressionHeader,
		ErrUnexpectedBitCount,
		ErrBufferOffsetOutOfRange,
		ErrTruncated,
		ErrInvalidBitCount,
		ErrInvalidHeaderSize,
		ErrInvalidRange,
		ErrNullPointer,
		ErrInvalidTrackKind,
		ErrInvalidCompressionType,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				require.False(t, errors.Is(a, b))
			}
		}
	}
}
