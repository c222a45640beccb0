// Package drivertest provides a scripted driver.GraphDriver for tests.
package drivertest

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/bubbles/pkg/driver"
)

// Call records one statement sent to the fake.
type Call struct {
	Write  bool
	Query  string
	Params map[string]any
}

// Response is what the fake returns for one call.
type Response struct {
	Records []*db.Record
	Err     error
}

// FakeDriver replays queued responses in order and records every call.
// When the queue is empty it returns no records and no error.
type FakeDriver struct {
	mu        sync.Mutex
	calls     []Call
	responses []Response

	ConnectivityErr error
	Closed          bool
}

var _ driver.GraphDriver = (*FakeDriver)(nil)

// New returns an empty fake.
func New() *FakeDriver {
	return &FakeDriver{}
}

// Enqueue adds a response for the next unanswered call.
func (f *FakeDriver) Enqueue(records []*db.Record, err error) *FakeDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, Response{Records: records, Err: err})
	return f
}

// Calls returns a copy of the recorded calls.
func (f *FakeDriver) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// LastCall returns the most recent call, or the zero Call.
func (f *FakeDriver) LastCall() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *FakeDriver) next(write bool, query string, params map[string]any) ([]*db.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Write: write, Query: query, Params: params})
	if len(f.responses) == 0 {
		return nil, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.Records, resp.Err
}

// ExecuteRead implements driver.GraphDriver.
func (f *FakeDriver) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.next(false, query, params)
}

// ExecuteWrite implements driver.GraphDriver.
func (f *FakeDriver) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.next(true, query, params)
}

// VerifyConnectivity implements driver.GraphDriver.
func (f *FakeDriver) VerifyConnectivity(ctx context.Context) error {
	return f.ConnectivityErr
}

// Close implements driver.GraphDriver.
func (f *FakeDriver) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Provider implements driver.GraphDriver.
func (f *FakeDriver) Provider() driver.GraphProvider {
	return driver.GraphProviderNeo4j
}

// Node builds a Bubble node as the store would return it.
func Node(elementID, title string) dbtype.Node {
	return dbtype.Node{
		ElementId: elementID,
		Labels:    []string{"Bubble"},
		Props:     map[string]any{"title": title},
	}
}

// Record builds a record from alternating keys and values.
func Record(kv ...any) *db.Record {
	r := &db.Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Keys = append(r.Keys, kv[i].(string))
		r.Values = append(r.Values, kv[i+1])
	}
	return r
}

// ConstraintViolation returns the error Neo4j reports for a duplicate unique property.
func ConstraintViolation(msg string) error {
	return &db.Neo4jError{Code: driver.CodeConstraintValidationFailed, Msg: msg}
}
