package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/config"
	"github.com/Sma1lboy/ArcticAI/internal/flow"
	"github.com/Sma1lboy/ArcticAI/internal/history"
	"github.com/Sma1lboy/ArcticAI/internal/providers"
	"github.com/Sma1lboy/ArcticAI/internal/recall"
	"github.com/Sma1lboy/ArcticAI/internal/sandbox"
	"github.com/Sma1lboy/ArcticAI/internal/session"
	"github.com/Sma1lboy/ArcticAI/internal/tools"
)

func main() {
	// Load .env if present, real environment wins.
	_ = godotenv.Load()

	configFlag := flag.String("config", "", "Path to JSON config file (default: built-in single-agent config)")
	promptFlag := flag.String("prompt", "", "Run a single prompt instead of the interactive loop")
	historyFlag := flag.Bool("history", false, "Print recent recorded runs and exit")
	flag.Parse()

	if err := run(context.Background(), *configFlag, *promptFlag, *historyFlag); err != nil {
		log.Fatalf("arctic failed: %v", err)
	}
}

func run(ctx context.Context, configPath, prompt string, showHistory bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if showHistory {
		return printHistory(ctx, cfg)
	}
	cfg.ApplyEnv()

	llm, err := providers.New(cfg.Provider)
	if err != nil {
		return err
	}

	env, err := prepareEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	var extraHooks []agent.Hook
	if env.recorder != nil {
		extraHooks = append(extraHooks, history.NewRecorderHook(env.recorder))
	}

	deps := tools.Deps{
		Workspace:   cfg.Workspace,
		Runner:      env.runner,
		RecallIndex: env.index,
	}

	if prompt != "" {
		return runOnce(ctx, cfg, llm, deps, env, prompt, extraHooks)
	}
	return runInteractive(ctx, cfg, llm, deps, env, extraHooks)
}

func runOnce(ctx context.Context, cfg *config.Config, llm agent.LLMClient, deps tools.Deps, env *runtimeEnv, prompt string, extraHooks []agent.Hook) error {
	f, _, err := flow.Build(cfg, llm, deps, extraHooks...)
	if err != nil {
		return err
	}

	result, err := f.Execute(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Println(result)

	env.saveTranscript(prompt, result)
	return nil
}

func runInteractive(ctx context.Context, cfg *config.Config, llm agent.LLMClient, deps tools.Deps, env *runtimeEnv, extraHooks []agent.Hook) error {
	log.Println("🧊 Arctic ready (interactive mode, type 'exit' to quit)")

	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !s.Scan() {
			break
		}
		input := strings.TrimSpace(s.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		// Each request gets a fresh flow and fresh agents: plans and agent
		// memory do not leak between requests.
		f, _, err := flow.Build(cfg, llm, deps, extraHooks...)
		if err != nil {
			return err
		}

		result, err := f.Execute(ctx, input)
		if err != nil {
			log.Printf("❌ %v", err)
			continue
		}
		fmt.Println(result)

		env.saveTranscript(input, result)
	}
	return s.Err()
}

func historyPath(cfg *config.Config) (string, error) {
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath, nil
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "history.db"), nil
}

// printHistory lists recent recorded runs. No provider is needed, so this
// works without an API key.
func printHistory(ctx context.Context, cfg *config.Config) error {
	dbPath, err := historyPath(cfg)
	if err != nil {
		return err
	}
	rec, err := history.NewRecorder(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer rec.Close()

	runs, err := rec.RecentRuns(ctx, 20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, r := range runs {
		request := r.Request
		if len(request) > 60 {
			request = request[:60]
		}
		fmt.Printf("%s  %-12s %-9s %s\n",
			time.Unix(r.StartedAt, 0).Format("2006-01-02 15:04"), r.AgentName, r.State, request)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runtimeEnv bundles the long-lived resources behind a single Close.
type runtimeEnv struct {
	sessions *session.Store
	index    *recall.Index
	watcher  *recall.Watcher
	recorder *history.Recorder
	runner   sandbox.Runner
}

func prepareEnv(ctx context.Context, cfg *config.Config) (*runtimeEnv, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	sessionDir := cfg.SessionDir
	if sessionDir == "" {
		sessionDir = filepath.Join(dataDir, "sessions")
	}
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	env := &runtimeEnv{sessions: session.NewStore(sessionDir)}

	recallPath := cfg.RecallPath
	if recallPath == "" {
		recallPath = filepath.Join(dataDir, "recall.bleve")
	}
	index, err := recall.NewIndex(recallPath)
	if err != nil {
		log.Printf("WARNING: recall index unavailable: %v", err)
	} else {
		env.index = index
		watcher, err := recall.NewWatcher(env.sessions, index)
		if err != nil {
			log.Printf("WARNING: recall watcher unavailable: %v", err)
		} else if err := watcher.Start(); err != nil {
			log.Printf("WARNING: recall watcher failed to start: %v", err)
		} else {
			env.watcher = watcher
			// Catch transcripts written while no watcher was running, and
			// repopulate a freshly recreated index.
			if err := watcher.Rebuild(); err != nil {
				log.Printf("WARNING: recall index rebuild failed: %v", err)
			}
		}
	}

	dbPath, err := historyPath(cfg)
	if err != nil {
		return nil, err
	}
	recorder, err := history.NewRecorder(ctx, dbPath)
	if err != nil {
		log.Printf("WARNING: run history unavailable: %v", err)
	} else {
		env.recorder = recorder
	}

	sandboxCfg := sandbox.DefaultConfig()
	if cfg.Sandbox != "" {
		sandboxCfg.Mode = sandbox.ParseMode(cfg.Sandbox)
	}
	runner, err := sandbox.NewRunner(sandboxCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox runner: %w", err)
	}
	env.runner = runner

	return env, nil
}

// saveTranscript persists a request/result pair as a session. The recall
// watcher picks the file up and indexes it.
func (env *runtimeEnv) saveTranscript(request, result string) {
	title := request
	if len(title) > 60 {
		title = title[:60]
	}
	sess := session.New(title)
	sess.Append(agent.UserMessage(request), agent.AssistantMessage(result))

	if err := env.sessions.Save(sess); err != nil {
		log.Printf("WARNING: failed to save session: %v", err)
	}
}

func (env *runtimeEnv) Close() {
	if env.watcher != nil {
		if err := env.watcher.Stop(); err != nil {
			log.Printf("WARNING: failed to stop recall watcher: %v", err)
		}
	}
	if env.index != nil {
		if err := env.index.Close(); err != nil {
			log.Printf("WARNING: failed to close recall index: %v", err)
		}
	}
	if env.recorder != nil {
		if err := env.recorder.Close(); err != nil {
			log.Printf("WARNING: failed to close history recorder: %v", err)
		}
	}
}
