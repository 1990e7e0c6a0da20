package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/node"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewExecCommand creates the exec command
func NewExecCommand() *cobra.Command {
	var (
		params         []string
		itemsFile      string
		continueOnFail bool
		binaryDir      string
	)

	cmd := &cobra.Command{
		Use:   "exec RESOURCE OPERATION",
		Short: "Run a node operation",
		Long: `Run one resource operation once per input item.

Items come from --items (a JSON object or an array of objects). Every
--param is merged into each item, or forms the only item when no file is
given. Binary results are written to --binary-dir.`,
		Example: `  proposify exec proposal getAll --param returnAll=true
  proposify exec proposal get --param proposalId=123
  proposify exec proposal downloadPdf --param proposalId=123 --binary-dir ./out
  proposify exec prospect create --items prospects.json --continue-on-fail`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(itemsFile, params)
			if err != nil {
				return err
			}

			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			executor := node.New(s.client, s.logger)

			resp, err := executor.Execute(cmd.Context(), &node.ExecuteRequest{
				Resource:       node.Resource(args[0]),
				Operation:      node.Operation(args[1]),
				Items:          items,
				ContinueOnFail: continueOnFail,
			})
			if err != nil {
				return err
			}

			if err := writeBinaries(binaryDir, resp.Items); err != nil {
				return err
			}

			s.logger.Debug("operation finished", map[string]interface{}{
				"operation": args[0] + "." + args[1],
				"items":     len(resp.Items),
				"duration":  resp.Duration.String(),
			})

			records := make([]proposify.Record, len(resp.Items))
			for i, item := range resp.Items {
				records[i] = item.JSON
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), records, recordsTable(records))
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "operation parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&itemsFile, "items", "i", "", "JSON file with input items")
	cmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "emit an error item instead of aborting")
	cmd.Flags().StringVar(&binaryDir, "binary-dir", ".", "directory for binary results")

	return cmd
}

// NewOperationsCommand creates the operations command
func NewOperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List node operations",
		Long:  "List every resource operation with its HTTP method and path template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), operationRecords(), operationsTable())
		},
	}
}

func operationRecords() []proposify.Record {
	keys := node.Keys()
	records := make([]proposify.Record, 0, len(keys))

	for _, key := range keys {
		route, _ := node.Lookup(key)
		records = append(records, proposify.Record{
			"resource":  string(key.Resource),
			"operation": string(key.Operation),
			"method":    string(route.Method),
			"path":      route.Path,
			"result":    route.Result.String(),
		})
	}

	return records
}

func operationsTable() *table {
	tbl := &table{headers: []string{"Resource", "Operation", "Method", "Path", "Result"}}

	for _, record := range operationRecords() {
		tbl.rows = append(tbl.rows, []string{
			cell(record["resource"]),
			cell(record["operation"]),
			cell(record["method"]),
			cell(record["path"]),
			cell(record["result"]),
		})
	}

	return tbl
}

// loadItems reads the items file, if any, and merges params into each item.
func loadItems(path string, pairs []string) ([]node.Params, error) {
	params, err := parseParams(pairs)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return []node.Params{params}, nil
	}

	// #nosec G304 -- the path is given by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	items, err := parseItems(data)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		for key, value := range params {
			item[key] = value
		}
	}

	return items, nil
}

func writeBinaries(dir string, items []node.Item) error {
	for _, item := range items {
		for _, binary := range item.Binary {
			if binary == nil || binary.FileName == "" {
				continue
			}

			if err := os.MkdirAll(dir, constants.ConfigDirPerm); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			path := filepath.Join(dir, filepath.Base(binary.FileName))
			if err := os.WriteFile(path, binary.Data, constants.DownloadFilePerm); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	return nil
}
