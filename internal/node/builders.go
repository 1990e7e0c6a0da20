package node

import (
	"fmt"
	"maps"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// snakeKeys renames the top-level keys only; nested values such as
// customFields are sent exactly as given.
func snakeKeys(record proposify.Record) proposify.Record {
	out := make(proposify.Record, len(record))

	for key, value := range record {
		out[proposify.CamelToSnake(key)] = value
	}

	return out
}

// fields builds the common body: each required parameter under its
// snake_case name, followed by the set values of the named collection.
func fields(collectionName string, required ...string) builder {
	return func(p Params) (proposify.Record, error) {
		body := proposify.Record{}

		for _, name := range required {
			if !present(p[name]) {
				return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
			}

			body[proposify.CamelToSnake(name)] = p[name]
		}

		extra := proposify.ProcessAdditionalFields(collection(p, collectionName))
		maps.Copy(body, snakeKeys(extra))

		return body, nil
	}
}

// withList post-processes a builder so the named key holds a list even when
// the parameter was given as comma separated text.
func withList(next builder, key string) builder {
	return func(p Params) (proposify.Record, error) {
		body, err := next(p)
		if err != nil {
			return nil, err
		}

		if value, ok := body[key]; ok {
			body[key] = splitList(value)
		}

		return body, nil
	}
}

// sendBody carries the recipients fixed collection plus the message fields.
func sendBody(p Params) (proposify.Record, error) {
	body, err := fields("additionalFields")(p)
	if err != nil {
		return nil, err
	}

	recipients := []any{}
	if values, ok := collection(p, "recipients")["recipientValues"].([]any); ok {
		recipients = values
	}

	body["recipients"] = recipients

	return body, nil
}

// contentBody carries the contentBlocks fixed collection.
func contentBody(p Params) (proposify.Record, error) {
	blocks := []any{}
	if values, ok := collection(p, "contentBlocks")["blocks"].([]any); ok {
		blocks = values
	}

	return proposify.Record{"blocks": blocks}, nil
}

func reorderBody(p Params) (proposify.Record, error) {
	if !present(p["feeIds"]) {
		return nil, fmt.Errorf("%w: feeIds", ErrMissingParam)
	}

	return proposify.Record{"fee_ids": splitList(p["feeIds"])}, nil
}

func replyBody(p Params) (proposify.Record, error) {
	commentID, err := requiredString(p, "commentId")
	if err != nil {
		return nil, err
	}

	content, err := requiredString(p, "replyContent")
	if err != nil {
		return nil, err
	}

	return proposify.Record{"content": content, "parent_id": commentID}, nil
}

// filterQuery converts the filters collection into query parameters.
func filterQuery(p Params) (proposify.Record, error) {
	return proposify.ParseFilters(collection(p, "filters"))
}

func exportQuery(p Params) (proposify.Record, error) {
	format, err := exportFormat(p)
	if err != nil {
		return nil, err
	}

	return proposify.Record{"format": format}, nil
}

func exportFormat(p Params) (string, error) {
	format := stringParam(p, "format")

	switch format {
	case "":
		return "pdf", nil
	case "pdf", "csv":
		return format, nil
	default:
		return "", fmt.Errorf("%w: format must be pdf or csv, got %q", ErrInvalidParam, format)
	}
}

func proposalPDF(p Params) (string, string, proposify.Record, error) {
	proposalID, err := requiredString(p, "proposalId")
	if err != nil {
		return "", "", nil, err
	}

	fileName := "proposal_" + proposalID + ".pdf"

	return fileName, "application/pdf", proposify.Record{"proposalId": proposalID, "fileName": fileName}, nil
}

func analyticsReport(p Params) (string, string, proposify.Record, error) {
	proposalID, err := requiredString(p, "proposalId")
	if err != nil {
		return "", "", nil, err
	}

	format, err := exportFormat(p)
	if err != nil {
		return "", "", nil, err
	}

	mimeType := "text/csv"
	if format == "pdf" {
		mimeType = "application/pdf"
	}

	fileName := "analytics_" + proposalID + "." + format

	return fileName, mimeType, proposify.Record{
		"proposalId": proposalID,
		"format":     format,
		"fileName":   fileName,
	}, nil
}

func viewerPath(p Params) string {
	if present(p["viewerId"]) {
		return "/proposals/{proposalId}/analytics/viewers/{viewerId}"
	}

	return "/proposals/{proposalId}/analytics/viewers"
}
