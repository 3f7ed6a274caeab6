package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheInvalidate_UnknownCollection(t *testing.T) {
	cmd := cacheCmd()
	cmd.SetArgs([]string{"invalidate", "wallets"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown cache collection "wallets"`)
}

func TestCollectionNames(t *testing.T) {
	assert.Equal(t,
		[]string{"cards", "policies", "payments", "banks", "account-types", "companies"},
		collectionNames())
}

func TestReconcileCmd_RequiresTarget(t *testing.T) {
	cmd := reconcileCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	require.Error(t, cmd.Execute())
}
