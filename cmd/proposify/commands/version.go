package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the Proposify CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			info := VersionInfo{Version: version, Commit: commit, Built: date}
			tbl := &table{
				headers: []string{"Property", "Value"},
				rows:    [][]string{{"Version", version}, {"Commit", commit}, {"Built", date}},
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), info, tbl)
		},
	}
}
