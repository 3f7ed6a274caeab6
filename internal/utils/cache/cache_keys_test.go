package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "global:cards:all", AllKey(CollectionCards))
	assert.Equal(t, "global:cards:", Prefix(CollectionCards))
	assert.Equal(t, "global:cards:customer:42", CustomerCardsKey(42))
	assert.Equal(t, "global:payments:policy:7", PolicyPaymentsKey(7))
	assert.Equal(t, "global:account-types:all", AllKey(CollectionAccountTypes))
}

func TestPrefixCoversCollectionKeys(t *testing.T) {
	prefix := Prefix(CollectionCards)
	assert.True(t, strings.HasPrefix(AllKey(CollectionCards), prefix))
	assert.True(t, strings.HasPrefix(CustomerCardsKey(1), prefix))
	assert.False(t, strings.HasPrefix(AllKey(CollectionPolicies), prefix))
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("policies")
	require.NoError(t, err)
	assert.Equal(t, CollectionPolicies, c)

	_, err = ParseCollection("wallets")
	assert.Error(t, err)
}
