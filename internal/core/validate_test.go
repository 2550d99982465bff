package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNameservers(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, err := ValidateNameservers(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "at least one nameserver required")
	})

	t.Run("too many", func(t *testing.T) {
		ns := make([]string, MaxNameservers+1)
		for i := range ns {
			ns[i] = "ns.example.net"
		}
		_, err := ValidateNameservers(ns)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank entry", func(t *testing.T) {
		_, err := ValidateNameservers([]string{"ns1.example.net", "   "})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "nameservers[1]", ve.Field)
	})

	t.Run("single label", func(t *testing.T) {
		_, err := ValidateNameservers([]string{"localhost"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("normalizes", func(t *testing.T) {
		ns, err := ValidateNameservers([]string{" NS1.Example.NET. ", "ns2.example.net"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ns1.example.net", "ns2.example.net"}, ns)
	})
}

func TestNormalizeDomainName(t *testing.T) {
	got, err := NormalizeDomainName("Bücher.example")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.example", got)

	_, err = NormalizeDomainName("bad_host!.com")
	assert.Error(t, err)
}
