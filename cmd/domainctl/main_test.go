package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConnectionForRequiresCredentials(t *testing.T) {
	_, err := connectionFor(core.RegistrarGoDaddy, config.RegistrarsConfig{
		GoDaddy: config.GoDaddyConfig{APIKey: "key"},
	})
	assert.ErrorContains(t, err, "GODADDY_API_SECRET")

	conn, err := connectionFor(core.RegistrarNamecheap, config.RegistrarsConfig{
		Namecheap: config.NamecheapConfig{APIKey: "key", Username: "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", conn.Secret())
	assert.True(t, conn.IsActive)

	conn, err = connectionFor(core.RegistrarDynadot, config.RegistrarsConfig{
		Dynadot: config.DynadotConfig{APIKey: "token"},
	})
	require.NoError(t, err)
	assert.Nil(t, conn.APISecret)
}

func TestUnknownRegistrarIsUsageError(t *testing.T) {
	_, err := execute(t, "test", "--registrar", "porkbun")

	var ce *cliError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Code)
	assert.True(t, ce.ShowUsage)
}

func TestDemoCredentials(t *testing.T) {
	t.Setenv("DYNADOT_API_TOKEN", "demo-dynadot-key")

	out, err := execute(t, "test", "-r", "dynadot")
	require.NoError(t, err)
	assert.Contains(t, out, "dynadot: credentials ok")

	out, err = execute(t, "search", "-r", "dynadot", "--json", "one.com", "two.com")
	require.NoError(t, err)

	var results []core.DomainResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "one.com", results[0].DomainName)
	assert.Equal(t, "two.com", results[1].DomainName)

	out, err = execute(t, "set-ns", "-r", "dynadot", "example.com", "ns1.example.net", "ns2.example.net")
	require.NoError(t, err)
	assert.Contains(t, out, "ns1.example.net, ns2.example.net")
}

func TestSetNSRejectsInvalidNameserver(t *testing.T) {
	t.Setenv("DYNADOT_API_TOKEN", "demo-dynadot-key")

	_, err := execute(t, "set-ns", "-r", "dynadot", "example.com", "localhost")

	var ce *cliError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Code)
}
