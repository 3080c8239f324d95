package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"todoistmcp/internal/config"
	"todoistmcp/internal/mcp"
	"todoistmcp/internal/todoist"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "todoistmcp",
	Short: "MCP server exposing Todoist task and project commands",
	Long: `todoistmcp is an MCP (Model Context Protocol) server that exposes
task- and project-management commands backed by the Todoist REST API.

It speaks newline-framed JSON-RPC 2.0 over stdio. Run it with no arguments
to start serving; set TODOIST_API_TOKEN in the environment (or a .env file)
before starting.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var callCmd = &cobra.Command{
	Use:   "call [command] [json-args]",
	Short: "Invoke a single command and print the result",
	Long: `Performs one command dispatch without starting the stdio transport,
for local debugging. The second argument is a JSON object of command
arguments and defaults to {}.

Example:
  todoistmcp call todoist_list_tasks '{"filter":"today"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCall(args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds a zap logger writing to stderr only; stdout is reserved
// for protocol frames.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	return cfg.Build()
}

// buildServer loads configuration and wires the dispatcher. A missing
// credential surfaces here, before any request is accepted.
func buildServer() (*mcp.Server, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	client := todoist.NewClient(cfg.APIToken, cfg.BaseURL, cfg.Timeout)
	server := mcp.NewServer(mcp.NewRegistry(), client, client, logger)
	return server, logger, nil
}

func runServe() error {
	server, logger, err := buildServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, "todoistmcp:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting stdio transport", zap.String("version", version))
	transport := mcp.NewTransport(server, logger, version)
	if err := transport.Start(); err != nil {
		logger.Error("transport failed", zap.Error(err))
		os.Exit(1)
	}
	return nil
}

func runCall(args []string) error {
	server, logger, err := buildServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, "todoistmcp:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rawArgs := map[string]interface{}{}
	if len(args) > 1 {
		if err := json.Unmarshal([]byte(args[1]), &rawArgs); err != nil {
			return fmt.Errorf("invalid JSON arguments: %w", err)
		}
	}

	result := server.Dispatch(context.Background(), args[0], rawArgs)
	fmt.Println(result.Text)
	if result.IsError {
		os.Exit(1)
	}
	return nil
}
