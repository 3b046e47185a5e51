package taskboard

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
	"github.com/taskboard/backend/internal/store"
)

// newSeedCommand populates a local database with a demo user, a project
// board, and a handful of issues so the API has something to serve.
func newSeedCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	sqlitePath := cfg.SQLitePath

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a local database with demo data.",
		Long:  "Creates a demo user (demo@taskboard.local / password123) with a populated project board.",
		Example: strings.TrimSpace(`taskboard seed
taskboard seed --sqlite-path /tmp/taskboard/taskboard.db`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(sqlitePath)
			if !cmd.Flags().Changed("sqlite-path") {
				path = strings.TrimSpace(cfg.SQLitePath)
			}
			if path == "" {
				return fmt.Errorf("--sqlite-path cannot be empty")
			}
			return runSeed(path, stdout)
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", sqlitePath, "sqlite database path")
	return cmd
}

func runSeed(sqlitePath string, stdout io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return fmt.Errorf("create sqlite parent dir failed: %w", err)
	}

	entityStore, err := store.Open(sqlitePath)
	if err != nil {
		return fmt.Errorf("open store failed: %w", err)
	}
	defer entityStore.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(entityStore, nil, nil, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	credential, user, err := svc.Register(service.Registration{
		Email:        "demo@taskboard.local",
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "User",
	})
	if err != nil {
		if service.CodeOf(err) == service.CodeConflict {
			_, _ = fmt.Fprintln(stdout, "database already seeded")
			return nil
		}
		return fmt.Errorf("register demo user failed: %w", err)
	}

	actorID, err := svc.ResolveActor(credential.PublicID)
	if err != nil {
		return fmt.Errorf("resolve demo user failed: %w", err)
	}

	// Registration already created the default project and board.
	projectID, columnIDs, err := defaultBoardLayout(entityStore, actorID)
	if err != nil {
		return err
	}

	seedIssues := []struct {
		title    string
		priority model.Priority
		kind     model.IssueType
		column   int
	}{
		{"Set up project workspace", model.PriorityHigh, model.IssueTypeTask, 2},
		{"Draft onboarding epic", model.PriorityMedium, model.IssueTypeEpic, 0},
		{"Invite teammates", model.PriorityLow, model.IssueTypeStory, 0},
		{"Review board layout", model.PriorityMedium, model.IssueTypeTask, 1},
	}
	var firstIssueID string
	for i, seed := range seedIssues {
		issue, err := svc.CreateIssue(actorID, service.IssueCreate{
			ProjectID: projectID,
			Title:     seed.title,
			Priority:  seed.priority,
			Type:      seed.kind,
		})
		if err != nil {
			return fmt.Errorf("seed issue failed: %w", err)
		}
		if i == 0 {
			firstIssueID = issue.ID
		}
		if _, err := svc.PlaceIssue(actorID, issue.ID, columnIDs[seed.column], nil); err != nil {
			return fmt.Errorf("place seed issue failed: %w", err)
		}
	}

	if _, err := svc.CreateLabel(actorID, projectID, "onboarding", "#7c3aed"); err != nil {
		return fmt.Errorf("seed label failed: %w", err)
	}

	if _, err := svc.CreateComment(actorID, firstIssueID, "", "Welcome to your board. Drag issues between columns to change their status."); err != nil {
		return fmt.Errorf("seed comment failed: %w", err)
	}
	description := "The workspace is ready once teammates have joined."
	if _, err := svc.UpdateIssue(actorID, firstIssueID, service.IssueUpdate{Description: &description}); err != nil {
		return fmt.Errorf("seed issue update failed: %w", err)
	}

	// A second account so the demo data has someone to assign and mention.
	if _, _, err := svc.Register(service.Registration{
		Email:        "alex@taskboard.local",
		PasswordHash: string(hash),
		FirstName:    "Alex",
		LastName:     "Demo",
	}); err != nil {
		return fmt.Errorf("register second demo user failed: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "seeded demo user %s (token %s)\n", user.Email, credential.PublicID)
	return nil
}

// defaultBoardLayout finds the board and column public ids created by the
// registration cascade.
func defaultBoardLayout(entityStore *store.Store, actorID int64) (string, []string, error) {
	var (
		projectID string
		columnIDs []string
	)
	err := entityStore.View(func(tx *store.Tx) error {
		projects, err := tx.ProjectsByMember(actorID)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			return fmt.Errorf("demo user has no project")
		}
		project := projects[0]
		projectID = project.PublicID

		boards, err := tx.BoardsByProject(project.ID)
		if err != nil {
			return err
		}
		if len(boards) == 0 {
			return fmt.Errorf("demo project has no board")
		}
		columns, err := tx.ColumnsByBoard(boards[0].ID)
		if err != nil {
			return err
		}
		for _, column := range columns {
			columnIDs = append(columnIDs, column.PublicID)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if len(columnIDs) < 3 {
		return "", nil, fmt.Errorf("demo board has fewer than three columns")
	}
	return projectID, columnIDs, nil
}
