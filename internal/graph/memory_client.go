package graph

import (
	"context"
	"maps"
	"strings"
	"sync"
)

// MemoryClient is an in-memory Client for repository and service tests. Canned
// results are matched by a fragment of the cypher text; unmatched queries
// return an empty result.
type MemoryClient struct {
	mu           sync.Mutex
	stubs        []stub
	calls        []ExecutedQuery
	err          error
	connectivity error
}

type stub struct {
	fragment string
	result   Result
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// On registers res for every query containing fragment. Earlier registrations win.
func (m *MemoryClient) On(fragment string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{fragment: fragment, result: res})
	return m
}

// WithError configures the client to return err for subsequent queries.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

func (m *MemoryClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if m.err != nil {
		return Result{}, m.err
	}

	m.calls = append(m.calls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})

	for _, s := range m.stubs {
		if strings.Contains(cypher, s.fragment) {
			return s.result, nil
		}
	}
	return Result{}, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Calls returns a snapshot of executed queries.
func (m *MemoryClient) Calls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.calls...)
}
