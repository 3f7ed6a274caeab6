// Package memory provides map-backed implementations of the repository
// interfaces and of the cache gateway. They back the service and
// reconciliation tests; each store is safe for concurrent use.
package memory
