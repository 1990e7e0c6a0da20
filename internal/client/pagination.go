package client

import (
	"context"
	"maps"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// FetchAll requests page 1, 2, ... with limit=50 and concatenates each page's
// data list. It stops after a page shorter than the limit, or as soon as a
// response has no data list, which counts as the end rather than a fault.
// The caller's query is not modified.
//
// Pages are fetched strictly one after another. The only way to abandon a
// long walk is cancelling ctx.
func (c *Client) FetchAll(ctx context.Context, method proposify.Method, path string, body, query proposify.Record) ([]proposify.Record, error) {
	pageQuery := make(proposify.Record, len(query)+2)
	maps.Copy(pageQuery, query)
	pageQuery[constants.QueryLimit] = constants.PageSize

	records := []proposify.Record{}

	for page := constants.FirstPage; ; page++ {
		err := ctx.Err()
		if err != nil {
			return records, asAPIError(err, method, path)
		}

		pageQuery[constants.QueryPage] = page

		resp, err := c.Request(ctx, method, path, body, pageQuery)
		if err != nil {
			return records, err
		}

		items, ok := dataList(resp)
		if !ok {
			c.debug("pagination stopped: no data list", path, page, len(records))

			return records, nil
		}

		records = append(records, items...)

		if len(items) < constants.PageSize {
			c.debug("pagination complete", path, page, len(records))

			return records, nil
		}
	}
}

// dataList extracts the records of a list response. Non-object entries are
// kept as-is under a "value" key so nothing the provider sent is dropped.
func dataList(resp proposify.Record) ([]proposify.Record, bool) {
	raw, ok := resp[constants.DataField].([]any)
	if !ok {
		return nil, false
	}

	items := make([]proposify.Record, 0, len(raw))

	for _, entry := range raw {
		record, isRecord := entry.(map[string]any)
		if !isRecord {
			record = proposify.Record{"value": entry}
		}

		items = append(items, record)
	}

	return items, true
}

func (c *Client) debug(msg, path string, page, total int) {
	if c.logger == nil {
		return
	}

	c.logger.Debug(msg, map[string]interface{}{
		"path":    path,
		"pages":   page,
		"records": total,
	})
}
