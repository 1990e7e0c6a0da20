package node

import (
	"cmp"
	"maps"
	"slices"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

const (
	get  = proposify.MethodGet
	post = proposify.MethodPost
	put  = proposify.MethodPut
	del  = proposify.MethodDelete
)

func single(method proposify.Method, path string) Route {
	return Route{Method: method, Path: path, Result: ResultSingle}
}

func list(path string) Route {
	return Route{Method: get, Path: path, Result: ResultList, query: filterQuery}
}

func deleted(path string) Route {
	return Route{Method: del, Path: path, Result: ResultDeleted}
}

func (r Route) withBody(b builder) Route {
	r.body = b

	return r
}

func (r Route) withQuery(b builder) Route {
	r.query = b

	return r
}

var routes = map[Key]Route{
	{ResourceProposal, OpGet}:    single(get, "/proposals/{proposalId}"),
	{ResourceProposal, OpGetAll}: {Method: get, Path: "/proposals", Result: ResultList, query: filterQuery, firstPage: true},
	{ResourceProposal, OpCreate}: single(post, "/proposals").
		withBody(fields("additionalFields", "name", "templateId")),
	{ResourceProposal, OpUpdate}: single(put, "/proposals/{proposalId}").
		withBody(fields("updateFields")),
	{ResourceProposal, OpDelete}: deleted("/proposals/{proposalId}"),
	{ResourceProposal, OpDuplicate}: single(post, "/proposals/{proposalId}/duplicate").
		withBody(fields("additionalFields")),
	{ResourceProposal, OpSend}:       single(post, "/proposals/{proposalId}/send").withBody(sendBody),
	{ResourceProposal, OpArchive}:    single(post, "/proposals/{proposalId}/archive"),
	{ResourceProposal, OpRestore}:    single(post, "/proposals/{proposalId}/restore"),
	{ResourceProposal, OpGetMetrics}: single(get, "/proposals/{proposalId}/metrics"),
	{ResourceProposal, OpGetContent}: single(get, "/proposals/{proposalId}/content"),
	{ResourceProposal, OpUpdateContent}: single(put, "/proposals/{proposalId}/content").
		withBody(contentBody),
	{ResourceProposal, OpDownloadPDF}: {Method: get, Path: "/proposals/{proposalId}/pdf", Result: ResultDownload, file: proposalPDF},
	{ResourceProposal, OpSetWon}: single(post, "/proposals/{proposalId}/won").
		withBody(fields("additionalFields")),
	{ResourceProposal, OpSetLost}: single(post, "/proposals/{proposalId}/lost").
		withBody(fields("additionalFields")),

	{ResourceTemplate, OpGet}:    single(get, "/templates/{templateId}"),
	{ResourceTemplate, OpGetAll}: list("/templates"),
	{ResourceTemplate, OpCreate}: single(post, "/templates").
		withBody(fields("additionalFields", "name")),
	{ResourceTemplate, OpUpdate}: single(put, "/templates/{templateId}").
		withBody(fields("updateFields")),
	{ResourceTemplate, OpDelete}: deleted("/templates/{templateId}"),
	{ResourceTemplate, OpDuplicate}: single(post, "/templates/{templateId}/duplicate").
		withBody(fields("additionalFields")),
	{ResourceTemplate, OpGetContent}: single(get, "/templates/{templateId}/content"),
	{ResourceTemplate, OpUpdateContent}: single(put, "/templates/{templateId}/content").
		withBody(contentBody),
	{ResourceTemplate, OpGetSections}:  single(get, "/templates/{templateId}/sections"),
	{ResourceTemplate, OpGetVariables}: single(get, "/templates/{templateId}/variables"),

	{ResourceProspect, OpGet}:    single(get, "/prospects/{prospectId}"),
	{ResourceProspect, OpGetAll}: list("/prospects"),
	{ResourceProspect, OpCreate}: single(post, "/prospects").
		withBody(fields("additionalFields", "email")),
	{ResourceProspect, OpUpdate}: single(put, "/prospects/{prospectId}").
		withBody(fields("updateFields")),
	{ResourceProspect, OpDelete}:       deleted("/prospects/{prospectId}"),
	{ResourceProspect, OpGetProposals}: single(get, "/prospects/{prospectId}/proposals"),
	{ResourceProspect, OpMerge}: single(post, "/prospects/{prospectId}/merge").
		withBody(fields("", "mergeWithId")),

	{ResourceContact, OpGet}:    single(get, "/contacts/{contactId}"),
	{ResourceContact, OpGetAll}: list("/contacts"),
	{ResourceContact, OpCreate}: single(post, "/contacts").
		withBody(fields("additionalFields", "email")),
	{ResourceContact, OpUpdate}: single(put, "/contacts/{contactId}").
		withBody(fields("updateFields")),
	{ResourceContact, OpDelete}: deleted("/contacts/{contactId}"),
	{ResourceContact, OpAddToProspect}: single(post, "/contacts/{contactId}/prospect").
		withBody(fields("", "prospectId")),
	{ResourceContact, OpRemoveFromProspect}: single(del, "/contacts/{contactId}/prospect/{prospectId}"),

	{ResourceSection, OpGet}:    single(get, "/sections/{sectionId}"),
	{ResourceSection, OpGetAll}: list("/sections"),
	{ResourceSection, OpCreate}: single(post, "/sections").
		withBody(withList(fields("additionalFields", "name", "content"), "tags")),
	{ResourceSection, OpUpdate}: single(put, "/sections/{sectionId}").
		withBody(withList(fields("updateFields"), "tags")),
	{ResourceSection, OpDelete}: deleted("/sections/{sectionId}"),
	{ResourceSection, OpDuplicate}: single(post, "/sections/{sectionId}/duplicate").
		withBody(fields("additionalFields")),
	{ResourceSection, OpAddToLibrary}: single(post, "/sections/{sectionId}/library"),
	{ResourceSection, OpGetVersions}:  single(get, "/sections/{sectionId}/versions"),

	{ResourceFee, OpGet}:    single(get, "/proposals/{proposalId}/fees/{feeId}"),
	{ResourceFee, OpGetAll}: list("/proposals/{proposalId}/fees"),
	{ResourceFee, OpCreate}: single(post, "/proposals/{proposalId}/fees").
		withBody(fields("additionalFields", "name", "unitPrice")),
	{ResourceFee, OpUpdate}: single(put, "/proposals/{proposalId}/fees/{feeId}").
		withBody(fields("updateFields")),
	{ResourceFee, OpDelete}:    deleted("/proposals/{proposalId}/fees/{feeId}"),
	{ResourceFee, OpReorder}:   single(post, "/proposals/{proposalId}/fees/reorder").withBody(reorderBody),
	{ResourceFee, OpCalculate}: single(post, "/proposals/{proposalId}/fees/calculate"),

	{ResourceSignature, OpGet}:    single(get, "/proposals/{proposalId}/signatures/{signatureId}"),
	{ResourceSignature, OpGetAll}: list("/proposals/{proposalId}/signatures"),
	{ResourceSignature, OpCreate}: single(post, "/proposals/{proposalId}/signatures").
		withBody(fields("additionalFields", "signerId")),
	{ResourceSignature, OpUpdate}: single(put, "/proposals/{proposalId}/signatures/{signatureId}").
		withBody(fields("updateFields")),
	{ResourceSignature, OpDelete}:    deleted("/proposals/{proposalId}/signatures/{signatureId}"),
	{ResourceSignature, OpGetStatus}: single(get, "/proposals/{proposalId}/signatures/{signatureId}/status"),
	{ResourceSignature, OpSendReminder}: single(post, "/proposals/{proposalId}/signatures/{signatureId}/remind").
		withBody(fields("additionalFields")),
	{ResourceSignature, OpRevoke}: single(post, "/proposals/{proposalId}/signatures/{signatureId}/revoke"),

	{ResourceComment, OpGet}:    single(get, "/proposals/{proposalId}/comments/{commentId}"),
	{ResourceComment, OpGetAll}: list("/proposals/{proposalId}/comments"),
	{ResourceComment, OpCreate}: single(post, "/proposals/{proposalId}/comments").
		withBody(fields("additionalFields", "content")),
	{ResourceComment, OpUpdate}: single(put, "/proposals/{proposalId}/comments/{commentId}").
		withBody(fields("", "content")),
	{ResourceComment, OpDelete}:  deleted("/proposals/{proposalId}/comments/{commentId}"),
	{ResourceComment, OpResolve}: single(post, "/proposals/{proposalId}/comments/{commentId}/resolve"),
	{ResourceComment, OpReply}:   single(post, "/proposals/{proposalId}/comments").withBody(replyBody),

	{ResourceUser, OpGet}:          single(get, "/users/{userId}"),
	{ResourceUser, OpGetAll}:       list("/users"),
	{ResourceUser, OpGetCurrent}:   single(get, "/users/me"),
	{ResourceUser, OpGetProposals}: list("/users/{userId}/proposals"),
	{ResourceUser, OpGetActivity}:  single(get, "/users/{userId}/activity").withQuery(filterQuery),

	{ResourceAnalytics, OpGetProposalViews}: single(get, "/proposals/{proposalId}/analytics/views").
		withQuery(filterQuery),
	{ResourceAnalytics, OpGetViewerDetails}: {Method: get, Result: ResultSingle, pathFor: viewerPath},
	{ResourceAnalytics, OpGetEngagement}:    single(get, "/proposals/{proposalId}/analytics/engagement"),
	{ResourceAnalytics, OpGetPageViews}:     single(get, "/proposals/{proposalId}/analytics/pages"),
	{ResourceAnalytics, OpGetTimeSpent}: single(get, "/proposals/{proposalId}/analytics/time").
		withQuery(filterQuery),
	{ResourceAnalytics, OpGetDeviceInfo}: single(get, "/proposals/{proposalId}/analytics/devices"),
	{ResourceAnalytics, OpExportReport}: {
		Method: get,
		Path:   "/proposals/{proposalId}/analytics/export",
		Result: ResultDownload,
		query:  exportQuery,
		file:   analyticsReport,
	},
}

// Lookup returns the route for key.
func Lookup(key Key) (Route, bool) {
	route, ok := routes[key]

	return route, ok
}

// Keys lists every supported (resource, operation) pair, sorted.
func Keys() []Key {
	return slices.SortedFunc(maps.Keys(routes), func(a, b Key) int {
		return cmp.Or(
			cmp.Compare(a.Resource, b.Resource),
			cmp.Compare(a.Operation, b.Operation),
		)
	})
}
