package sandbox

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Mode selects how commands are isolated.
type Mode string

const (
	// ModeDocker runs commands in ephemeral Docker containers.
	ModeDocker Mode = "docker"
	// ModeHost runs commands directly on the host (no isolation).
	ModeHost Mode = "host"
	// ModeAuto picks Docker when the daemon is reachable, host otherwise.
	ModeAuto Mode = "auto"
)

const defaultImage = "alpine:3.20"

// Config holds sandbox execution settings.
type Config struct {
	Mode       Mode
	Image      string        // Docker image override
	CPU        string        // CPU limit, e.g. "2"
	Memory     string        // memory limit, e.g. "1g"
	CmdTimeout time.Duration // default command timeout
}

// ParseMode maps a config string onto a Mode, defaulting to auto.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docker":
		return ModeDocker
	case "host":
		return ModeHost
	case "", "auto":
		return ModeAuto
	default:
		log.Printf("WARNING: unknown sandbox mode %q, defaulting to auto", s)
		return ModeAuto
	}
}

// DefaultConfig builds a configuration from ARCTIC_* environment variables.
func DefaultConfig() Config {
	cmdTimeout := 2 * time.Minute
	if s := os.Getenv("ARCTIC_CMD_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cmdTimeout = d
		} else {
			log.Printf("WARNING: invalid ARCTIC_CMD_TIMEOUT value %q, using default 2m", s)
		}
	}

	return Config{
		Mode:       ParseMode(os.Getenv("ARCTIC_SANDBOX_MODE")),
		Image:      getEnvOrDefault("ARCTIC_DOCKER_IMAGE", defaultImage),
		CPU:        getEnvOrDefault("ARCTIC_DOCKER_CPU", "2"),
		Memory:     getEnvOrDefault("ARCTIC_DOCKER_MEMORY", "1g"),
		CmdTimeout: cmdTimeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// IsDockerAvailable reports whether the Docker daemon is reachable.
func IsDockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "ps")
	return cmd.Run() == nil
}

// NewRunner creates a runner for the configured mode. In auto mode it probes
// the Docker daemon and falls back to the host runner when unreachable.
func NewRunner(cfg Config) (Runner, error) {
	switch cfg.Mode {
	case ModeDocker:
		return NewDockerRunner(cfg)
	case ModeHost:
		log.Printf("WARNING: using host executor, commands run without isolation")
		return &HostRunner{config: cfg}, nil
	case ModeAuto:
		if IsDockerAvailable(context.Background()) {
			if r, err := NewDockerRunner(cfg); err == nil {
				return r, nil
			} else {
				log.Printf("WARNING: Docker available but runner creation failed: %v, falling back to host", err)
			}
		}
		return &HostRunner{config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown sandbox mode: %s", cfg.Mode)
	}
}
