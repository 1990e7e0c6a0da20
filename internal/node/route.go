package node

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// Result selects how a route's response becomes output items.
type Result int

const (
	// ResultSingle emits the decoded response as one item.
	ResultSingle Result = iota
	// ResultList emits one item per record of a list endpoint, honouring
	// returnAll and limit.
	ResultList
	// ResultDeleted emits {success: true} plus the ids from the path.
	ResultDeleted
	// ResultDownload emits metadata with the raw response attached as binary.
	ResultDownload
)

func (r Result) String() string {
	switch r {
	case ResultSingle:
		return "single"
	case ResultList:
		return "list"
	case ResultDeleted:
		return "deleted"
	case ResultDownload:
		return "download"
	default:
		return "unknown"
	}
}

type builder func(p Params) (proposify.Record, error)

// attachment names a downloaded file and the metadata emitted next to it.
type attachment func(p Params) (fileName, mimeType string, meta proposify.Record, err error)

// Route is the declarative description of one operation.
type Route struct {
	Method proposify.Method
	// Path is a template with {param} placeholders filled from the item.
	Path   string
	Result Result

	// pathFor picks the template at run time when it depends on an
	// optional parameter.
	pathFor func(p Params) string
	body    builder
	query   builder
	// firstPage adds page=1 to single-page list requests.
	firstPage bool
	file      attachment
}

var placeholder = regexp.MustCompile(`\{([A-Za-z]+)\}`)

func (r Route) template(p Params) string {
	if r.pathFor != nil {
		return r.pathFor(p)
	}

	return r.Path
}

// PathParams lists the placeholder names of the route's template in order.
func (r Route) PathParams(p Params) []string {
	matches := placeholder.FindAllStringSubmatch(r.template(p), -1)
	names := make([]string, 0, len(matches))

	for _, match := range matches {
		names = append(names, match[1])
	}

	return names
}

// expand fills the template. Every placeholder is required.
func (r Route) expand(p Params) (string, error) {
	var missing error

	path := placeholder.ReplaceAllStringFunc(r.template(p), func(token string) string {
		name := strings.Trim(token, "{}")

		value, err := requiredString(p, name)
		if err != nil && missing == nil {
			missing = err
		}

		return url.PathEscape(value)
	})

	if missing != nil {
		return "", missing
	}

	return path, nil
}

func (r Route) buildBody(p Params) (proposify.Record, error) {
	if r.body == nil {
		return nil, nil
	}

	body, err := r.body(p)
	if err != nil {
		return nil, fmt.Errorf("building body: %w", err)
	}

	return body, nil
}

func (r Route) buildQuery(p Params) (proposify.Record, error) {
	if r.query == nil {
		return proposify.Record{}, nil
	}

	query, err := r.query(p)
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return query, nil
}
