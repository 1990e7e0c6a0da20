// Package pfclient is the entry point for building a Proposify API client.
//
//	client, err := pfclient.New(ctx, &proposify.Config{APIKey: os.Getenv("PROPOSIFY_API_KEY")})
//	if err != nil {
//		return err
//	}
//
//	proposals, err := client.FetchAll(ctx, proposify.MethodGet, "/proposals", nil, nil)
package pfclient
