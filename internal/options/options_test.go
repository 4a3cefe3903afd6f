package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errNegativeLimit = errors.New("limit cannot be negative")

type limits struct {
	request int
	record  int
	calls   []string
}

func withRequest(v int) Option[*limits] {
	return New(func(l *limits) error {
		if v < 0 {
			return errNegativeLimit
		}
		l.request = v
		l.calls = append(l.calls, "request")

		return nil
	})
}

func withRecord(v int) Option[*limits] {
	return NoError(func(l *limits) {
		l.record = v
		l.calls = append(l.calls, "record")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		l := &limits{}
		err := Apply(l, withRecord(10), withRequest(20), withRecord(30))

		require.NoError(t, err)
		require.Equal(t, 20, l.request)
		require.Equal(t, 30, l.record)
		require.Equal(t, []string{"record", "request", "record"}, l.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		l := &limits{}
		err := Apply(l, withRequest(5), withRequest(-1), withRecord(7))

		require.ErrorIs(t, err, errNegativeLimit)
		require.Equal(t, 5, l.request)
		require.Zero(t, l.record, "options after the failing one are not applied")
	})

	t.Run("empty and nil options", func(t *testing.T) {
		l := &limits{}
		require.NoError(t, Apply(l))
		require.NoError(t, Apply[*limits](l, nil, withRecord(1)))
		require.Equal(t, 1, l.record)
	})
}

func TestOption_GenericsWithDifferentTypes(t *testing.T) {
	var num int
	opt := NoError(func(n *int) { *n = 42 })

	require.NoError(t, opt.apply(&num))
	require.Equal(t, 42, num)
}
