package node_test

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

type recordedCall struct {
	Kind   string
	Method proposify.Method
	Path   string
	Body   proposify.Record
	Query  proposify.Record
}

// FakeClient records every call and answers with canned data.
type FakeClient struct {
	mu       sync.Mutex
	calls    []recordedCall
	response proposify.Record
	records  []proposify.Record
	download []byte
	failOn   map[string]error
}

func (f *FakeClient) record(call recordedCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)

	return f.failOn[call.Path]
}

func (f *FakeClient) Request(_ context.Context, method proposify.Method, path string, body, query proposify.Record) (proposify.Record, error) {
	err := f.record(recordedCall{Kind: "request", Method: method, Path: path, Body: body, Query: query})
	if err != nil {
		return nil, err
	}

	if f.response == nil {
		return proposify.Record{}, nil
	}

	return f.response, nil
}

func (f *FakeClient) Download(_ context.Context, path string) ([]byte, error) {
	err := f.record(recordedCall{Kind: "download", Method: proposify.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}

	return f.download, nil
}

func (f *FakeClient) FetchAll(_ context.Context, method proposify.Method, path string, body, query proposify.Record) ([]proposify.Record, error) {
	err := f.record(recordedCall{Kind: "fetchAll", Method: method, Path: path, Body: body, Query: query})
	if err != nil {
		return nil, err
	}

	return f.records, nil
}

func (f *FakeClient) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedCall(nil), f.calls...)
}
