package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docqa/internal/chain"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/filter"
	"docqa/internal/keyindex"
	"docqa/internal/llm"
	"docqa/internal/orchestrator"
	"docqa/internal/retriever"
	"docqa/internal/synthesis"
	"docqa/internal/tui"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/memory"
	"docqa/internal/vectorstore/qdrant"
)

type result struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Citations string `json:"citations"`
}

func main() {
	_ = godotenv.Load()

	var (
		cfgPath     = flag.String("config", "", "Path to YAML config file (optional)")
		corpus      = flag.String("corpus", "", "Corpus name (required)")
		topK        = flag.Int("top-k", 0, "Number of chunks to retrieve (overrides config)")
		lang        = flag.String("lang", "", "Target language for code examples (overrides config)")
		usage       = flag.String("context", "", "Usage context for code examples (overrides config)")
		out         = flag.String("out", "", "Also write the result to this JSON file")
		interactive = flag.Bool("tui", false, "Run the interactive terminal UI")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if *corpus == "" || (!*interactive && flag.NArg() == 0) {
		fmt.Println("Usage: docqa [--config=config.yaml] --corpus NAME [--top-k N] [--lang dart] [--context \"...\"] [--out result.json] [--tui] \"question\"")
		os.Exit(1)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *topK > 0 {
		cfg.Retriever.TopK = *topK
	}
	if *lang != "" {
		cfg.Synthesis.TargetLanguage = *lang
	}
	if *usage != "" {
		cfg.Synthesis.UsageContext = *usage
	}

	logger, err := buildLogger(*verbose)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	orch, err := buildOrchestrator(cfg, *corpus, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *interactive {
		m := tui.New(orch, *corpus)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	question := flag.Arg(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Provider.TimeoutSecs)*time.Second)
	defer cancel()

	ans, err := orch.Answer(ctx, question)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	fmt.Println(ans.Text)
	fmt.Println()
	fmt.Println(ans.Citations)

	if *out != "" {
		data, err := json.MarshalIndent(result{Question: question, Answer: ans.Text, Citations: ans.Citations}, "", "  ")
		if err != nil {
			log.Fatalf("encode result: %v", err)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("write result file: %v", err)
		}
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return c.Build()
}

// buildOrchestrator assembles the query pipeline for one corpus.
// Provider credentials are checked here, before any retrieval work.
func buildOrchestrator(cfg *config.AppConfig, corpus string, logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	embedder, err := embedding.NewOpenAI(embedding.OpenAIConfig{
		APIKeyEnv: cfg.Provider.APIKeyEnv,
		Model:     cfg.Provider.EmbeddingModel,
	})
	if err != nil {
		return nil, err
	}
	model, err := llm.NewOpenAI(llm.OpenAIConfig{
		APIKeyEnv:   cfg.Provider.APIKeyEnv,
		Model:       cfg.Provider.Model,
		Temperature: float32(cfg.Provider.Temperature),
	})
	if err != nil {
		return nil, err
	}

	corpusDir := cfg.CorpusDir(corpus)
	keys, err := keyindex.Load(corpusDir)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg, corpus, corpusDir)
	if err != nil {
		return nil, err
	}

	classifier := chain.NewClassifier(model, logger)
	return orchestrator.New(
		retriever.New(store, embedder),
		keys,
		filter.New(classifier, logger),
		synthesis.New(model, logger),
		orchestrator.Config{
			TopK: cfg.Retriever.TopK,
			Transform: synthesis.TransformOptions{
				Language: cfg.Synthesis.TargetLanguage,
				Usage:    cfg.Synthesis.UsageContext,
			},
		},
		logger,
	), nil
}

func openStore(cfg *config.AppConfig, corpus, corpusDir string) (vectorstore.Storage, error) {
	switch cfg.Store.Type {
	case "memory", "":
		return memory.Load(corpusDir)
	case "qdrant":
		if cfg.Store.Qdrant == nil {
			return nil, fmt.Errorf("qdrant store selected but not configured")
		}
		collection := cfg.Store.Qdrant.Collection
		if collection == "" {
			collection = corpus
		}
		return qdrant.New(qdrant.Config{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.Store.Qdrant.APIKey,
			Collection: collection,
			Timeout:    time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Store.Type)
	}
}
