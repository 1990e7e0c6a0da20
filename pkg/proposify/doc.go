// Package proposify holds the public types shared by the Proposify client,
// the workflow node and the webhook trigger.
//
// # Making requests
//
// A Client is created with pfclient.New:
//
//	client, err := pfclient.New(ctx, &proposify.Config{APIKey: os.Getenv("PROPOSIFY_API_KEY")})
//	if err != nil {
//		return err
//	}
//
//	proposal, err := client.Request(ctx, proposify.MethodGet, "/proposals/123", nil, nil)
//
// Empty body and query maps are never sent. Every failure is an *APIError:
//
//	if apiErr, ok := proposify.AsAPIError(err); ok && apiErr.IsClientError() {
//		// fix the request
//	}
//
// # Listing everything
//
// FetchAll walks pages of 50 records until a short page or a response without
// a data list:
//
//	prospects, err := client.FetchAll(ctx, proposify.MethodGet, "/prospects", nil, nil)
//
// # Parameters
//
// Node parameters use camelCase names; the provider expects snake_case.
// ProcessAdditionalFields drops empty values and ParseFilters converts filter
// collections into query parameters.
package proposify
