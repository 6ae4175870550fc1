package graph

import (
	"context"
	"errors"
	"time"
)

// Client is the read-only contract the repository needs from the graph store.
type Client interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// First returns the first record, or nil when the result is empty.
func (r Result) First() Record {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// List returns the value under key as a list, or nil when it is absent or not a list.
func (r Record) List(key string) []any {
	list, _ := r[key].([]any)
	return list
}

// Map returns the value under key as a map, or nil when it is absent or not a map.
func (r Record) Map(key string) map[string]any {
	m, _ := r[key].(map[string]any)
	return m
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	QueryTimeout   time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
