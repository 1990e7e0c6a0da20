package commands

import (
	"fmt"
	"os"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/spf13/cobra"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download PATH",
		Short: "Download a binary document",
		Long:  "Fetch a binary response such as a proposal PDF and write it to a file or stdout",
		Example: `  proposify download /proposals/123/pdf --file proposal_123.pdf
  proposify download "/proposals/123/analytics/export?format=csv" > report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			data, err := s.client.Download(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", args[0], err)
			}

			if file == "" {
				_, err = cmd.OutOrStdout().Write(data)

				return err
			}

			if err := os.WriteFile(file, data, constants.DownloadFilePerm); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(data), file)

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "destination file (default stdout)")

	return cmd
}
