package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRequestCommand creates the request command
func NewRequestCommand() *cobra.Command {
	var (
		data  string
		query []string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a raw API request",
		Long: `Send a single authenticated request and print the decoded response.

PATH is relative to the API base URL, for example /proposals. With --all the
request is repeated page by page and the records of every page are printed.`,
		Example: `  proposify request GET /proposals --query status=sent
  proposify request POST /prospects --data '{"name":"Acme"}'
  proposify request GET /templates --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := proposify.Method(strings.ToUpper(args[0]))
			if !method.Valid() {
				return fmt.Errorf("%w: %s", ErrInvalidMethod, args[0])
			}

			body, err := parseData(data)
			if err != nil {
				return err
			}

			params, err := parseParams(query)
			if err != nil {
				return err
			}

			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			format := viper.GetString("output")

			if all {
				records, err := s.client.FetchAll(cmd.Context(), method, args[1], body, params)
				if err != nil {
					return fmt.Errorf("failed to fetch %s: %w", args[1], err)
				}

				return writeOutput(cmd.OutOrStdout(), format, records, recordsTable(records))
			}

			response, err := s.client.Request(cmd.Context(), method, args[1], body, params)
			if err != nil {
				return fmt.Errorf("failed to request %s: %w", args[1], err)
			}

			return writeOutput(cmd.OutOrStdout(), format, response, responseTable(response))
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func parseData(data string) (proposify.Record, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}

	var body proposify.Record
	if err := json.Unmarshal([]byte(data), &body); err != nil || body == nil {
		return nil, ErrInvalidJSONData
	}

	return body, nil
}
