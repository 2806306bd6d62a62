package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/commerce-insights/internal/agent"
	"github.com/dvloznov/commerce-insights/internal/analytics"
	"github.com/dvloznov/commerce-insights/internal/config"
	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/logger"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ask":
		runAsk(log)
	case "chat":
		runChat(log)
	case "run":
		runOperation(log)
	case "overview":
		runTool(log, analytics.ToolDataOverview)
	case "capabilities":
		runTool(log, analytics.ToolCapabilities)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Commerce Insights CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ask           Ask a one-off question in natural language")
	fmt.Println("  chat          Interactive analytics chat session")
	fmt.Println("  run           Run one analytics operation directly, printing JSON")
	fmt.Println("  overview      Print the dataset overview")
	fmt.Println("  capabilities  List available analytics operations")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAsk(log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	dataDir := fs.String("data-dir", "", "directory holding the CSV tables (default: DATA_DIR)")
	fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		log.Fatal().Msg("Usage: cli ask [-data-dir DIR] <question>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, _ := newAgent(ctx, log, *dataDir)
	answer, err := a.Ask(ctx, question)
	if err != nil {
		log.Fatal().Err(err).Msg("Question failed")
	}

	fmt.Println(answer)
}

func runChat(log zerolog.Logger) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	dataDir := fs.String("data-dir", "", "directory holding the CSV tables (default: DATA_DIR)")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	a, engine := newAgent(ctx, log, *dataDir)

	anchor := engine.Anchor()
	fmt.Printf("Commerce Insights chat. Data covers %s to %s. Type 'exit' to quit.\n\n",
		anchor.DataStart.Format(dataset.DateFormat), anchor.DataEnd.Format(dataset.DateFormat))

	var history []*genai.Content
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		answer, updated, err := a.AskWithHistory(turnCtx, history, question)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Question failed")
			continue
		}
		history = updated
		fmt.Println(answer)
		fmt.Println()
	}
}

// runOperation executes one operation by name with JSON arguments,
// bypassing the model entirely.
func runOperation(log zerolog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dataDir := fs.String("data-dir", "", "directory holding the CSV tables (default: DATA_DIR)")
	argsJSON := fs.String("args", "{}", "operation arguments as a JSON object")
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		log.Fatal().Msg("Usage: cli run [-data-dir DIR] [-args JSON] <operation>")
	}
	operation := fs.Arg(0)

	var args map[string]any
	if err := json.Unmarshal([]byte(*argsJSON), &args); err != nil {
		log.Fatal().Err(err).Msg("Invalid -args JSON")
	}

	engine := newEngine(log, *dataDir)
	printEnvelope(log, analytics.Dispatch(engine, operation, args))
}

func runTool(log zerolog.Logger, name string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dataDir := fs.String("data-dir", "", "directory holding the CSV tables (default: DATA_DIR)")
	fs.Parse(os.Args[2:])

	engine := newEngine(log, *dataDir)
	printEnvelope(log, analytics.Dispatch(engine, name, nil))
}

func printEnvelope(log zerolog.Logger, env analytics.Envelope) {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
	if !env.OK() {
		os.Exit(1)
	}
}

func newEngine(log zerolog.Logger, dataDir string) *analytics.Engine {
	cfg := config.Load()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	snap, err := dataset.Default(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("Failed to load dataset")
	}
	return analytics.New(snap)
}

func newAgent(ctx context.Context, log zerolog.Logger, dataDir string) (*agent.Agent, *analytics.Engine) {
	cfg := config.Load()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	snap, err := dataset.Default(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("Failed to load dataset")
	}
	engine := analytics.New(snap)

	a, err := agent.New(ctx, engine, cfg.GeminiAPIKey, cfg.ModelID, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create agent")
	}
	return a, engine
}
