package taskboard

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

func Run(args []string, stdout, stderr io.Writer, env []string) int {
	home, err := os.UserHomeDir()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, http.StatusInternalServerError, err.Error()))
		return 1
	}

	fileCfg, err := LoadOrInitConfig(home)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, http.StatusInternalServerError, err.Error()))
		return 1
	}

	cfg := MergeConfig(DefaultConfig(home), fileCfg, ParseEnvConfig(env), Config{})
	if !isValidOutput(string(cfg.Output)) {
		cfg.Output = OutputText
	}

	root := NewRootCommand(cfg, stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var cErr *cliError
		if ok := asCLIError(err, &cErr); ok {
			_, _ = fmt.Fprintln(stderr, FormatError(cfg.Output, cErr.status, cErr.message))
			return 1
		}
		_, _ = fmt.Fprintln(stderr, FormatError(cfg.Output, http.StatusInternalServerError, err.Error()))
		return 1
	}

	return 0
}
