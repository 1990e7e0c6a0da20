//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIKey     string
	BaseURL    string
	BinaryPath string
	WebhookURL string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIKey:     os.Getenv("PROPOSIFY_API_KEY"),
		BaseURL:    os.Getenv("PROPOSIFY_BASE_URL"),
		BinaryPath: getBinaryPath(),
		WebhookURL: os.Getenv("PROPOSIFY_TEST_WEBHOOK_URL"),
		Verbose:    os.Getenv("PROPOSIFY_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the proposify binary
func getBinaryPath() string {
	if path := os.Getenv("PROPOSIFY_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../proposify",
		"./proposify",
		"../proposify",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "proposify" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIKey == "" {
		t.Skip("PROPOSIFY_API_KEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("proposify binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the proposify binary with an isolated config directory.
type CommandRunner struct {
	config *TestConfig
	home   string
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		home:   t.TempDir(),
		t:      t,
	}
}

// Run executes a proposify command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+runner.home)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login stores the API key in the runner's config directory.
func (runner *CommandRunner) Login() error {
	args := []string{"login", "--api-key", runner.config.APIKey}
	if runner.config.BaseURL != "" {
		args = append(args, "--base-url", runner.config.BaseURL)
	}

	_, stderr, err := runner.Run(args...)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// DecodeJSON parses command output into v.
func DecodeJSON(t *testing.T, output string, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), v), "output: %s", output)
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
