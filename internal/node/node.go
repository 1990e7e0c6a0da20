package node

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// Node runs Proposify operations against a client.
type Node struct {
	client proposify.Client
	logger proposify.Logger
}

// New creates a node. logger may be nil.
func New(client proposify.Client, logger proposify.Logger) *Node {
	return &Node{client: client, logger: logger}
}

// NodeType implements Executor.
func (n *Node) NodeType() string {
	return NodeType
}

// Execute runs the requested operation once per input item, in order. With
// ContinueOnFail a failing item produces {"error": message} paired with its
// index and the run goes on; otherwise the first failure aborts the run.
func (n *Node) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	key := Key{Resource: req.Resource, Operation: req.Operation}

	route, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, key)
	}

	start := time.Now()
	out := make([]Item, 0, len(req.Items))

	for i, params := range req.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := n.run(ctx, route, params)
		if err != nil {
			n.logFailure(key, i, err)

			if req.ContinueOnFail {
				out = append(out, Item{JSON: proposify.Record{"error": err.Error()}, PairedItem: i})

				continue
			}

			return nil, fmt.Errorf("%s item %d: %w", key, i, err)
		}

		for _, item := range items {
			item.PairedItem = i
			out = append(out, item)
		}
	}

	return &ExecuteResponse{Items: out, Duration: time.Since(start)}, nil
}

func (n *Node) run(ctx context.Context, route Route, params Params) ([]Item, error) {
	if params == nil {
		params = Params{}
	}

	path, err := route.expand(params)
	if err != nil {
		return nil, err
	}

	body, err := route.buildBody(params)
	if err != nil {
		return nil, err
	}

	query, err := route.buildQuery(params)
	if err != nil {
		return nil, err
	}

	switch route.Result {
	case ResultList:
		return n.runList(ctx, route, path, body, query, params)
	case ResultDeleted:
		return n.runDeleted(ctx, route, path, params)
	case ResultDownload:
		return n.runDownload(ctx, route, path, query, params)
	default:
		resp, err := n.client.Request(ctx, route.Method, path, body, query)
		if err != nil {
			return nil, err
		}

		return []Item{{JSON: resp}}, nil
	}
}

func (n *Node) runList(ctx context.Context, route Route, path string, body, query proposify.Record, params Params) ([]Item, error) {
	returnAll, err := boolParam(params, "returnAll")
	if err != nil {
		return nil, err
	}

	if returnAll {
		records, err := n.client.FetchAll(ctx, route.Method, path, body, query)
		if err != nil {
			return nil, err
		}

		return recordItems(records), nil
	}

	limit, err := intParam(params, "limit", constants.PageSize)
	if err != nil {
		return nil, err
	}

	query[constants.QueryLimit] = limit
	if route.firstPage {
		query[constants.QueryPage] = constants.FirstPage
	}

	resp, err := n.client.Request(ctx, route.Method, path, body, query)
	if err != nil {
		return nil, err
	}

	raw, _ := resp[constants.DataField].([]any)
	records := make([]proposify.Record, 0, len(raw))

	for _, entry := range raw {
		if record, ok := entry.(map[string]any); ok {
			records = append(records, record)
		}
	}

	return recordItems(records), nil
}

func (n *Node) runDeleted(ctx context.Context, route Route, path string, params Params) ([]Item, error) {
	_, err := n.client.Request(ctx, route.Method, path, nil, nil)
	if err != nil {
		return nil, err
	}

	result := proposify.Record{"success": true}
	for _, name := range route.PathParams(params) {
		result[name] = stringParam(params, name)
	}

	return []Item{{JSON: result}}, nil
}

func (n *Node) runDownload(ctx context.Context, route Route, path string, query proposify.Record, params Params) ([]Item, error) {
	fileName, mimeType, meta, err := route.file(params)
	if err != nil {
		return nil, err
	}

	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, fmt.Sprint(value))
		}

		path += "?" + values.Encode()
	}

	data, err := n.client.Download(ctx, path)
	if err != nil {
		return nil, err
	}

	property := stringParam(params, "binaryPropertyName")
	if property == "" {
		property = constants.DefaultBinaryProperty
	}

	return []Item{{
		JSON: meta,
		Binary: map[string]*proposify.Binary{
			property: {Data: data, FileName: fileName, MimeType: mimeType},
		},
	}}, nil
}

func recordItems(records []proposify.Record) []Item {
	items := make([]Item, len(records))
	for i, record := range records {
		items[i] = Item{JSON: record}
	}

	return items
}

func (n *Node) logFailure(key Key, index int, err error) {
	if n.logger == nil {
		return
	}

	n.logger.Warn("operation failed", map[string]interface{}{
		"operation": key.String(),
		"item":      index,
		"error":     err.Error(),
	})
}
