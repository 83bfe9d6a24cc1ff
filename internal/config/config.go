// Package config loads the JSON flow configuration. Configuration is plain
// data constructed once and passed into flows and agents; there is no
// process-wide config registry.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Provider selects and parameterizes the model boundary client.
type Provider struct {
	Name    string `json:"name"`               // "openai" or "anthropic"
	Model   string `json:"model"`              // model name
	APIKey  string `json:"api_key,omitempty"`  // falls back to environment
	BaseURL string `json:"base_url,omitempty"` // OpenAI-compatible endpoints
}

// ToolSet selects which tool categories an agent gets.
type ToolSet struct {
	Planning  bool `json:"planning"`
	Meta      bool `json:"meta"`      // think, terminate
	Workspace bool `json:"workspace"` // read_file, write_file, list_files
	Execution bool `json:"execution"` // run_cmd
	Recall    bool `json:"recall"`    // search over saved transcripts
}

// AgentDef declares one agent the flow can drive.
type AgentDef struct {
	Key      string  `json:"key"`
	Prompt   string  `json:"prompt,omitempty"` // system prompt override
	MaxSteps int     `json:"max_steps,omitempty"`
	Tools    ToolSet `json:"tools"`
}

// Flow selects which agents drive the plan.
type Flow struct {
	Primary   string   `json:"primary"`
	Executors []string `json:"executors,omitempty"`
}

// Config is the full flow configuration.
type Config struct {
	Provider    Provider   `json:"provider"`
	Agents      []AgentDef `json:"agents,omitempty"`
	Flow        Flow       `json:"flow"`
	Workspace   string     `json:"workspace,omitempty"`    // root for workspace tools
	SessionDir  string     `json:"session_dir,omitempty"`  // saved transcripts
	HistoryPath string     `json:"history_path,omitempty"` // sqlite run history
	RecallPath  string     `json:"recall_path,omitempty"`  // bleve transcript index
	Sandbox     string     `json:"sandbox,omitempty"`      // "docker", "host" or "auto"
}

// Default returns a runnable single-agent configuration rooted in the
// current directory.
func Default() *Config {
	return &Config{
		Provider: Provider{Name: "openai", Model: "gpt-4o-mini"},
		Agents: []AgentDef{
			{Key: "arctic", Tools: ToolSet{Planning: true, Meta: true, Workspace: true}},
		},
		Flow:      Flow{Primary: "arctic"},
		Workspace: ".",
		Sandbox:   "auto",
	}
}

// Load reads a JSON configuration file. Validation fills defaults for paths
// and flow wiring, but the file must declare its own provider and agents: a
// config that omits them is rejected rather than silently inheriting the
// built-in agent set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Provider.Name == "" {
		return fmt.Errorf("provider.name is required")
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent must be configured")
	}
	keys := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Key == "" {
			return fmt.Errorf("every agent needs a key")
		}
		if keys[a.Key] {
			return fmt.Errorf("duplicate agent key %q", a.Key)
		}
		keys[a.Key] = true
	}
	if c.Flow.Primary == "" {
		c.Flow.Primary = c.Agents[0].Key
	}
	if !keys[c.Flow.Primary] {
		return fmt.Errorf("flow.primary %q does not match any configured agent", c.Flow.Primary)
	}
	for _, k := range c.Flow.Executors {
		if !keys[k] {
			return fmt.Errorf("flow executor %q does not match any configured agent", k)
		}
	}
	if c.Workspace == "" {
		c.Workspace = "."
	}
	if c.Sandbox == "" {
		c.Sandbox = "auto"
	}
	return nil
}

// ApplyEnv fills credentials from the environment when the file left them
// empty.
func (c *Config) ApplyEnv() {
	if c.Provider.APIKey != "" {
		return
	}
	switch c.Provider.Name {
	case "anthropic":
		c.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		c.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		if c.Provider.BaseURL == "" {
			c.Provider.BaseURL = os.Getenv("OPENAI_BASE_URL")
		}
	}
}

// DataDir resolves the directory used for sessions, history and the recall
// index when the config does not pin explicit paths.
func (c *Config) DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(base, "arctic"), nil
}
