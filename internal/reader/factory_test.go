package reader

import (
	"errors"
	"testing"

	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
	}{
		{"1.00", 0, 0},
		{"1", 0, 0},
		{"0.01", 0, 1},
		{"0.50", 0, 50},
		{"1.10", 1, 10},
		{"1.2", 1, 20},
		{"2.00", 2, 0},
		{" 3.07 ", 3, 7},
	}
	for _, tt := range tests {
		major, minor, err := ParseVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.major, major, "major of %q", tt.in)
		assert.Equal(t, tt.minor, minor, "minor of %q", tt.in)
	}

	for _, bad := range []string{"", "abc", "-1", "NaN", "Inf", "1e300"} {
		_, _, err := ParseVersion(bad)
		assert.ErrorIs(t, err, descriptor.ErrFormat, "version %q", bad)
	}
}

func TestLookup(t *testing.T) {
	for _, algo := range []string{"Gradient Boosting Machine", "Gradient Boosting Method", "gbm", "Distributed Random Forest", "drf"} {
		ctor, err := Lookup(algo, "0.01")
		require.NoError(t, err, algo)
		assert.NotNil(t, ctor)

		_, err = Lookup(algo, "1.00")
		require.NoError(t, err, algo)
	}

	_, err := Lookup("Gradient Boosting Machine", "2.00")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	var uerr *UnsupportedError
	require.True(t, errors.As(err, &uerr))
	assert.True(t, uerr.Known)
	assert.Equal(t, 2, uerr.Major)
	assert.Contains(t, err.Error(), "unsupported version 2.00")

	_, err = Lookup("Deep Water", "1.00")
	require.ErrorAs(t, err, &uerr)
	assert.False(t, uerr.Known)
	assert.Contains(t, err.Error(), "unsupported algorithm")

	_, err = Lookup("Gradient Boosting Machine", "")
	assert.ErrorIs(t, err, descriptor.ErrFormat)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestRegister(t *testing.T) {
	called := false
	Register("Test Forest", 3, func(setup *descriptor.Setup, d *model.Descriptor) (Builder, error) {
		called = true
		return nil, errors.New("not built")
	})

	ctor, err := Lookup("Test Forest", "3.14")
	require.NoError(t, err)
	_, err = ctor(nil, nil)
	assert.Error(t, err)
	assert.True(t, called)

	assert.Contains(t, Algorithms(), "Test Forest")
	assert.Contains(t, Algorithms(), "drf")
}

func TestErrorKind(t *testing.T) {
	_, err := Lookup("Deep Water", "1.00")
	assert.Equal(t, KindUnsupported, ErrorKind(err))
	_, _, err = ParseVersion("x")
	assert.Equal(t, KindFormat, ErrorKind(err))
	assert.Equal(t, KindOther, ErrorKind(errors.New("boom")))
}
