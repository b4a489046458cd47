// Package main is the mevzuat CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/agent"
	"github.com/openmevzuat/mevzuat/internal/config"
	"github.com/openmevzuat/mevzuat/internal/embedding"
	"github.com/openmevzuat/mevzuat/internal/eval"
	"github.com/openmevzuat/mevzuat/internal/ingest"
	"github.com/openmevzuat/mevzuat/internal/keyword"
	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/retrieval"
	"github.com/openmevzuat/mevzuat/internal/server"
	"github.com/openmevzuat/mevzuat/internal/session"
	"github.com/openmevzuat/mevzuat/internal/storage"
	"github.com/openmevzuat/mevzuat/internal/tools"
	"github.com/openmevzuat/mevzuat/internal/vector"
	"github.com/openmevzuat/mevzuat/internal/watcher"
	"github.com/openmevzuat/mevzuat/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/mevzuat/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence so running from the project dir
// picks up the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "ask":
		runAsk()
	case "eval":
		runEval()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("mevzuat version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: mevzuat <command> [flags]

Commands:
  server   Ingest the corpus and serve the HTTP API
  ingest   Build the article corpus from the document directory
  ask      Answer a single question from the command line
  eval     Run the evaluation harness over a test case file
  status   Show corpus statistics from a running server
  version  Print version
  help     Print this help
`)
}

func setup(configPath string, debugFlag bool) (*config.Config, string, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)
	return cfg, resolvedPath, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	stats, err := components.Pipeline.Run(context.Background())
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}
	logger.Info("corpus ready",
		zap.Int("articles", stats.Articles),
		zap.Bool("loaded_from_disk", stats.Skipped))

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if cfg.Ingest.Watch {
		pipeline := components.Pipeline
		watchSvc = watcher.New(cfg.Ingest.PDFDir, func(path string) {
			if err := pipeline.ReingestFile(context.Background(), path); err != nil {
				logger.Warn("reingest failed", zap.String("path", path), zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Agent,
		session.NewManager(),
		components.LLM,
		components.Storage,
		components.VectorIndex,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
		logger.Warn("vector index save failed",
			zap.String("path", cfg.Storage.VectorIndexPath),
			zap.Error(err))
	}
	watchCancel()
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	stats, err := components.Pipeline.Run(context.Background())
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}
	if stats.Skipped {
		fmt.Printf("Corpus already ingested: %d articles loaded from disk.\n", stats.Articles)
		return
	}
	fmt.Printf("Ingested %d documents into %d articles (%d batches).\n",
		stats.Documents, stats.Articles, stats.Batches)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: mevzuat ask [flags] <question>")
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if _, err := components.Pipeline.Run(context.Background()); err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	result, err := components.Agent.Run(context.Background(), query, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result.Answer)
}

func runEval() {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	casesPath := fs.String("cases", "test_cases.json", "test case JSON file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	cases, err := eval.LoadTestCases(*casesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load test cases: %v\n", err)
		os.Exit(1)
	}

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if _, err := components.Pipeline.Run(context.Background()); err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	// The grader runs on the same chat model deployment at temperature 0.
	graderClient, err := llm.NewOpenAIClient(cfg.LLM.BaseURL, os.Getenv(cfg.LLM.APIKeyEnv), cfg.LLM.Model, 0)
	if err != nil {
		logger.Fatal("Failed to create grader client", zap.Error(err))
	}
	harness := eval.NewHarness(components.Agent, eval.NewGrader(graderClient), eval.WithLogger(logger))

	report, err := harness.Run(context.Background(), cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		os.Exit(1)
	}
	report.Write(os.Stdout)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(strings.TrimRight(*serverURL, "/") + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}
	var pretty map[string]interface{}
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

// Components holds the wired dependencies shared by the subcommands.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.VectorIndex
	KeywordIndex keyword.KeywordIndex
	Pipeline     *ingest.Pipeline
	LLM          llm.Client
	Agent        *agent.Agent
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var embedder embedding.Embedder
	if apiKey := os.Getenv(cfg.Embedding.APIKeyEnv); apiKey != "" {
		embedder, err = embedding.NewOpenAIEmbedder(
			cfg.Embedding.BaseURL,
			apiKey,
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
	} else {
		logger.Warn("embedding API key not set, using mock embedder",
			zap.String("env", cfg.Embedding.APIKeyEnv))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	vectorIndex, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	pipeline := ingest.NewPipeline(
		store, embedder, vectorIndex, keywordIndex,
		&cfg.Ingest, cfg.Storage.VectorIndexPath,
		ingest.WithLogger(logger),
	)

	llmClient, err := llm.NewOpenAIClient(
		cfg.LLM.BaseURL,
		os.Getenv(cfg.LLM.APIKeyEnv),
		cfg.LLM.Model,
		cfg.LLM.Temperature,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	retriever := retrieval.NewRetriever(store, embedder, vectorIndex, keywordIndex)
	registered := []*tools.Tool{tools.NewRetrieveTool(retriever, cfg.Agent.RetrieveK)}
	if webKey := os.Getenv(cfg.WebSearch.APIKeyEnv); webKey != "" {
		searcher := tools.NewWebSearcher(
			webKey,
			os.Getenv(cfg.WebSearch.CSEIDEnv),
			cfg.WebSearch.SiteDomain,
			cfg.WebSearch.MaxResults,
		)
		registered = append(registered, tools.NewWebSearchTool(searcher))
	} else {
		logger.Warn("web search API key not set, site search tool disabled",
			zap.String("env", cfg.WebSearch.APIKeyEnv))
	}

	a := agent.New(
		llmClient,
		tools.NewRegistry(registered...),
		cfg.Agent.MaxIterations,
		cfg.Agent.MaxDuration(),
		agent.WithLogger(logger),
	)

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Pipeline:     pipeline,
		LLM:          llmClient,
		Agent:        a,
	}, nil
}
