/*-------------------------------------------------------------------------
 *
 * main.go
 *    Main entry point for the NeuronHR agent server
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/cmd/hr-agent-server/main.go
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neurondb/NeuronHR/internal/agent"
	"github.com/neurondb/NeuronHR/internal/api"
	"github.com/neurondb/NeuronHR/internal/config"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/hr"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/metrics"
	"github.com/neurondb/NeuronHR/internal/mutation"
	"github.com/neurondb/NeuronHR/internal/nlu"
	"github.com/neurondb/NeuronHR/internal/tools"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	var (
		showVersion    = flag.Bool("version", false, "Show version information")
		configPath     = flag.String("c", "", "Path to configuration file")
		configPathLong = flag.String("config", "", "Path to configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "NeuronHR Agent Server - conversational HR assistant with confirmed data mutations\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfiguration:\n")
		fmt.Fprintf(os.Stderr, "  - Command line flag: -c or --config\n")
		fmt.Fprintf(os.Stderr, "  - Environment variable: CONFIG_PATH\n")
		fmt.Fprintf(os.Stderr, "  - Environment variables NEURONHR_* (see config package)\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("neuronhr version %s\n", version)
		fmt.Printf("Build date: %s\n", buildDate)
		fmt.Printf("Git commit: %s\n", gitCommit)
		os.Exit(0)
	}

	/* Load configuration */
	cfg := config.DefaultConfig()
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = *configPathLong
	}
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath != "" {
		var err error
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: Failed to load config: %v\n", err)
			os.Exit(1)
		}
	} else {
		config.LoadFromEnv(cfg)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	metrics.InitLogging(cfg.Logging.Level, cfg.Logging.Format)

	/* Connect to database */
	database, err := db.NewDBWithRetry(cfg.Database.ConnString(), db.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, 3, 2*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	queries := db.NewQueries(database.DB)
	queries.SetConnInfoFunc(database.GetConnInfoString)

	/* Model provider */
	provider := llm.NewHTTPClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Timeout)

	/* Mutation pipeline */
	builder := mutation.NewBuilder(provider, queries, cfg.Agent.ProposalTTL)
	lifecycle := mutation.NewManager(queries)
	sweeper := mutation.NewSweeper(queries, cfg.Agent.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	/* Tool registry */
	calculator := hr.NewCalculator()
	directory := hr.NewDirectory(queries)
	registry := tools.NewRegistry()
	registry.Register(tools.NewModifyDataTool(builder))
	registry.Register(tools.NewConfirmOperationTool(lifecycle))
	registry.Register(tools.NewRollbackOperationTool(lifecycle))
	registry.Register(tools.NewListPendingOperationsTool(lifecycle))
	registry.Register(tools.NewCalculateVacationTool(calculator))
	registry.Register(tools.NewCalculateTerminationTool(calculator))
	registry.Register(tools.NewCalculateOvertimeTool(calculator))
	registry.Register(tools.NewQueryEmployeesTool(directory))
	registry.Register(tools.NewQueryDatabaseTool(directory))
	registry.Register(tools.NewSearchKnowledgeTool(directory))

	/* Orchestration */
	classifier := nlu.NewClassifier(provider, nlu.DefaultCatalog())
	conversations := agent.NewConversationStore()
	orchestrator := agent.NewOrchestrator(provider, registry, classifier, conversations,
		cfg.Agent.MaxToolIterations, cfg.Agent.ToolCallingEnabled)

	handlers := api.NewHandlers(orchestrator, lifecycle, queries, database)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.Router(cfg.Server.AuthToken),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		metrics.InfoWithContext(context.Background(), "Starting NeuronHR agent server", map[string]interface{}{
			"addr":    server.Addr,
			"version": version,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "FATAL: Server failed: %v\n", err)
			os.Exit(1)
		}
	}()

	/* Graceful shutdown */
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	metrics.InfoWithContext(context.Background(), "Shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}
}
