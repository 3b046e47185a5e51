package taskboard

import (
	"strings"

	"github.com/taskboard/backend/pkg/taskboardconfig"
)

type Config struct {
	ServerURL  string
	Output     Output
	SQLitePath string
	ObjectsDir string
}

func DefaultConfig(home string) Config {
	shared := taskboardconfig.Default(home)
	return Config{
		ServerURL:  shared.ServerURL,
		Output:     Output(shared.CLI.Output),
		SQLitePath: shared.Backend.SQLitePath,
		ObjectsDir: shared.Backend.ObjectsDir,
	}
}

func ParseEnvConfig(env []string) Config {
	cfg := Config{}

	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "TASKBOARD_SERVER_URL="):
			cfg.ServerURL = strings.TrimSpace(strings.TrimPrefix(kv, "TASKBOARD_SERVER_URL="))
		case strings.HasPrefix(kv, "TASKBOARD_OUTPUT="):
			value := strings.TrimSpace(strings.TrimPrefix(kv, "TASKBOARD_OUTPUT="))
			if isValidOutput(value) {
				cfg.Output = Output(value)
			}
		case strings.HasPrefix(kv, "TASKBOARD_SQLITE_PATH="):
			cfg.SQLitePath = strings.TrimSpace(strings.TrimPrefix(kv, "TASKBOARD_SQLITE_PATH="))
		case strings.HasPrefix(kv, "TASKBOARD_OBJECTS_DIR="):
			cfg.ObjectsDir = strings.TrimSpace(strings.TrimPrefix(kv, "TASKBOARD_OBJECTS_DIR="))
		}
	}

	return cfg
}

func MergeConfig(defaults, fileCfg, envCfg, flagCfg Config) Config {
	out := defaults
	applyConfig(&out, fileCfg)
	applyConfig(&out, envCfg)
	applyConfig(&out, flagCfg)
	return out
}

func applyConfig(dst *Config, src Config) {
	if value := strings.TrimSpace(src.ServerURL); value != "" {
		dst.ServerURL = value
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if value := strings.TrimSpace(src.SQLitePath); value != "" {
		dst.SQLitePath = value
	}
	if value := strings.TrimSpace(src.ObjectsDir); value != "" {
		dst.ObjectsDir = value
	}
}

func LoadOrInitConfig(home string) (Config, error) {
	shared, err := taskboardconfig.LoadOrInit(home)
	if err != nil {
		return Config{}, err
	}
	return mapSharedToCLI(shared), nil
}

func mapSharedToCLI(shared taskboardconfig.Config) Config {
	cfg := Config{
		ServerURL:  strings.TrimSpace(shared.ServerURL),
		Output:     Output(strings.TrimSpace(shared.CLI.Output)),
		SQLitePath: strings.TrimSpace(shared.Backend.SQLitePath),
		ObjectsDir: strings.TrimSpace(shared.Backend.ObjectsDir),
	}
	if cfg.Output != "" && !isValidOutput(string(cfg.Output)) {
		cfg.Output = ""
	}
	return cfg
}
