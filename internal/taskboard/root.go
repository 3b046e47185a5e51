package taskboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	serverURL string
	output    string
}

func NewRootCommand(initial Config, stdout, stderr io.Writer) *cobra.Command {
	cfg := initial
	flags := globalFlags{
		serverURL: initial.ServerURL,
		output:    string(initial.Output),
	}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Run the taskboard backend and stream its events.",
		Long: strings.TrimSpace(`taskboard is a unified binary for:
- starting the taskboard backend API server
- seeding a local database with demo data
- streaming realtime events over websocket

Use taskboard help <command> for command-specific examples.`),
		Example: strings.TrimSpace(`taskboard serve
taskboard serve --addr 127.0.0.1:8090
taskboard seed
taskboard watch --project <project-id>`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return applyGlobalFlags(&cfg, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.serverURL, "server-url", flags.serverURL, "Backend API base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&flags.output, "output", flags.output, "Output format: text or json")

	root.AddCommand(newServeCommand(&cfg))
	root.AddCommand(newSeedCommand(&cfg, stdout))
	root.AddCommand(newWatchCommand(&cfg, stdout))

	return root
}

func applyGlobalFlags(cfg *Config, flags globalFlags) error {
	output := strings.TrimSpace(flags.output)
	if !isValidOutput(output) {
		return &cliError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid --output: %s", output)}
	}

	cfg.ServerURL = strings.TrimSpace(flags.serverURL)
	cfg.Output = Output(output)

	if cfg.ServerURL == "" {
		return &cliError{status: http.StatusBadRequest, message: "--server-url cannot be empty"}
	}

	return nil
}

func newWatchCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"events", "stream"},
		Short:   "Stream realtime events over websocket.",
		Long:    "Connect to the backend websocket and continuously print events until interrupted.",
		Example: strings.TrimSpace(`taskboard watch
taskboard watch --project <project-id>
taskboard watch --project <project-id> --board <board-id>
taskboard events -p <project-id> --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, _ := cmd.Flags().GetString("project")
			board, _ := cmd.Flags().GetString("board")
			wsURL, err := BuildWebsocketURL(cfg.ServerURL, strings.TrimSpace(project), strings.TrimSpace(board))
			if err != nil {
				return &cliError{status: http.StatusBadRequest, message: err.Error()}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
			if err != nil {
				return &cliError{status: http.StatusBadGateway, message: err.Error()}
			}
			defer conn.Close()

			// Interrupts cancel the context, but ReadJSON can still block
			// until socket activity. Close the connection on cancel to
			// unblock reads immediately.
			go func() {
				<-ctx.Done()
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "interrupt"),
					time.Now().Add(500*time.Millisecond),
				)
				_ = conn.Close()
			}()

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				var event map[string]any
				if err := conn.ReadJSON(&event); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return &cliError{status: http.StatusBadGateway, message: err.Error()}
				}

				line, err := FormatWatchLine(cfg.Output, event)
				if err != nil {
					return &cliError{status: http.StatusInternalServerError, message: err.Error()}
				}
				if _, err := fmt.Fprintln(stdout, line); err != nil {
					return &cliError{status: http.StatusInternalServerError, message: err.Error()}
				}
			}
		},
	}

	watchCmd.Flags().StringP("project", "p", "", "Optional project id filter")
	watchCmd.Flags().StringP("board", "b", "", "Optional board id filter (layout events only)")
	return watchCmd
}
