package awardgraph

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/awardgraph/awardgraph"
	"github.com/awardgraph/awardgraph/pkg/agent"
	"github.com/awardgraph/awardgraph/pkg/server"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/tools"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the graph over HTTP",
	Long: `Load a GraphML snapshot and serve it over a REST API.

The server provides endpoints for:
- Searching nodes and retrieving node details
- Organization, technology and state statistics
- Background visualization jobs with progress streaming
- Natural-language chat queries backed by an LLM

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost     string
	serverPort     int
	serverMode     string
	serverSnapshot string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "", "Server mode (debug, release, test)")
	serverCmd.Flags().StringVar(&serverSnapshot, "snapshot", "", "GraphML snapshot to load")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if serverMode != "" {
		cfg.Server.Mode = serverMode
	}
	if serverSnapshot != "" {
		cfg.Graph.SnapshotFile = serverSnapshot
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	log.Info("loading snapshot", "file", cfg.Graph.SnapshotFile)
	store, err := awardgraph.Load(cfg.Graph.SnapshotFile)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	log.Info("graph loaded", "nodes", store.NodeCount(), "edges", store.EdgeCount())

	var conversations *agent.Conversations
	if cfg.LLM.APIKey != "" {
		registry := tools.NewRegistry(store)
		summary := stats.Summarize(store)
		client := agent.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		conversations = agent.NewConversations(func() *agent.Handler {
			return agent.NewHandler(client, registry, summary, cfg.LLM.Model, cfg.LLM.MaxTokens, log)
		})
	} else {
		log.Warn("no LLM API key configured, chat endpoints disabled")
	}

	srv, err := server.New(cfg, store, conversations, log)
	if err != nil {
		return err
	}
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}
