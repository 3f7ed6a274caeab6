package cache

import (
	"fmt"
	"strings"
	"time"
)

// Collection names a cached family of records.
type Collection string

const (
	CollectionCards        Collection = "cards"
	CollectionPolicies     Collection = "policies"
	CollectionPayments     Collection = "payments"
	CollectionBanks        Collection = "banks"
	CollectionAccountTypes Collection = "account-types"
	CollectionCompanies    Collection = "companies"
)

// Collections lists every family the service caches.
var Collections = []Collection{
	CollectionCards,
	CollectionPolicies,
	CollectionPayments,
	CollectionBanks,
	CollectionAccountTypes,
	CollectionCompanies,
}

const (
	scopeGlobal = "global"
	separator   = ":"
)

// TTLs
const (
	// CollectionTTL is the default lifetime of card, policy and payment
	// projections (9 hours).
	CollectionTTL = 32400 * time.Second
	// ReferenceTTL of zero keeps banks, account types and companies until a
	// write invalidates them.
	ReferenceTTL time.Duration = 0
)

// GenerateKey creates a standardized cache key:
// global:<collection>:<part>[:<part>...]
func GenerateKey(collection Collection, parts ...any) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, scopeGlobal, string(collection))
	for _, p := range parts {
		segments = append(segments, fmt.Sprint(p))
	}
	return strings.Join(segments, separator)
}

// AllKey is the key of the full collection projection.
func AllKey(collection Collection) string {
	return GenerateKey(collection, "all")
}

// Prefix covers every key of a collection, for DelPattern.
func Prefix(collection Collection) string {
	return GenerateKey(collection) + separator
}

func CustomerCardsKey(customerID uint) string {
	return GenerateKey(CollectionCards, "customer", customerID)
}

func PolicyPaymentsKey(policyID uint) string {
	return GenerateKey(CollectionPayments, "policy", policyID)
}

// ParseCollection validates a user supplied collection name.
func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cache collection %q", name)
}
