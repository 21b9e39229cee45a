// Package containers starts throwaway Redis and Postgres instances for
// integration suites (go test -tags integration).
package containers
