// Package node exposes the Proposify operations to a workflow host. Each
// (resource, operation) pair maps to one route in a static table; Execute
// runs a route once per input item.
package node

import (
	"context"
	"errors"
	"time"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// NodeType is the identifier the host registers this node under.
const NodeType = "proposify"

// Static errors returned while resolving and running operations.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingParam     = errors.New("missing required parameter")
	ErrInvalidParam     = errors.New("invalid parameter")
)

// Resource is a provider entity family.
type Resource string

// Resources.
const (
	ResourceProposal  Resource = "proposal"
	ResourceTemplate  Resource = "template"
	ResourceProspect  Resource = "prospect"
	ResourceContact   Resource = "contact"
	ResourceSection   Resource = "section"
	ResourceFee       Resource = "fee"
	ResourceSignature Resource = "signature"
	ResourceComment   Resource = "comment"
	ResourceUser      Resource = "user"
	ResourceAnalytics Resource = "analytics"
)

// Operation is an action on a resource.
type Operation string

// Operations. Not every operation exists for every resource.
const (
	OpGet                Operation = "get"
	OpGetAll             Operation = "getAll"
	OpCreate             Operation = "create"
	OpUpdate             Operation = "update"
	OpDelete             Operation = "delete"
	OpDuplicate          Operation = "duplicate"
	OpSend               Operation = "send"
	OpArchive            Operation = "archive"
	OpRestore            Operation = "restore"
	OpGetMetrics         Operation = "getMetrics"
	OpGetContent         Operation = "getContent"
	OpUpdateContent      Operation = "updateContent"
	OpDownloadPDF        Operation = "downloadPdf"
	OpSetWon             Operation = "setWon"
	OpSetLost            Operation = "setLost"
	OpGetSections        Operation = "getSections"
	OpGetVariables       Operation = "getVariables"
	OpGetProposals       Operation = "getProposals"
	OpMerge              Operation = "merge"
	OpAddToProspect      Operation = "addToProspect"
	OpRemoveFromProspect Operation = "removeFromProspect"
	OpAddToLibrary       Operation = "addToLibrary"
	OpGetVersions        Operation = "getVersions"
	OpReorder            Operation = "reorder"
	OpCalculate          Operation = "calculate"
	OpGetStatus          Operation = "getStatus"
	OpSendReminder       Operation = "sendReminder"
	OpRevoke             Operation = "revoke"
	OpResolve            Operation = "resolve"
	OpReply              Operation = "reply"
	OpGetCurrent         Operation = "getCurrent"
	OpGetActivity        Operation = "getActivity"
	OpGetProposalViews   Operation = "getProposalViews"
	OpGetViewerDetails   Operation = "getViewerDetails"
	OpGetEngagement      Operation = "getEngagement"
	OpGetPageViews       Operation = "getPageViews"
	OpGetTimeSpent       Operation = "getTimeSpent"
	OpGetDeviceInfo      Operation = "getDeviceInfo"
	OpExportReport       Operation = "exportReport"
)

// Key selects one route.
type Key struct {
	Resource  Resource  `json:"resource"  yaml:"resource"`
	Operation Operation `json:"operation" yaml:"operation"`
}

func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Operation)
}

// Params holds the parameters of one input item, keyed by their camelCase
// names (proposalId, returnAll, additionalFields, ...).
type Params = proposify.Record

// Item is one output record. PairedItem is the index of the input item that
// produced it.
type Item struct {
	JSON       proposify.Record             `json:"json"             yaml:"json"`
	Binary     map[string]*proposify.Binary `json:"binary,omitempty" yaml:"binary,omitempty"`
	PairedItem int                          `json:"paired_item"      yaml:"paired_item"`
}

// ExecuteRequest is one host invocation: a single operation applied to every
// input item in order.
type ExecuteRequest struct {
	Resource       Resource
	Operation      Operation
	Items          []Params
	ContinueOnFail bool
}

// ExecuteResponse carries the output items of a run.
type ExecuteResponse struct {
	Items    []Item
	Duration time.Duration
}

// Executor is the contract the host runtime calls.
type Executor interface {
	Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error)
	NodeType() string
}
