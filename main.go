package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/uraniumcovid/yarmtl/pkg/auth"
	"github.com/uraniumcovid/yarmtl/pkg/config"
	"github.com/uraniumcovid/yarmtl/pkg/sync"
	"github.com/uraniumcovid/yarmtl/pkg/task"
)

func main() {
	list := pflag.BoolP("list", "l", false, "list all tasks")
	done := pflag.BoolP("done", "d", false, "show completed tasks too")
	doSync := pflag.Bool("sync", false, "run one sync pass against Todoist")
	setupTodoist := pflag.Bool("setup-todoist", false, "store the Todoist API token")
	logout := pflag.Bool("logout", false, "delete the stored Todoist API token")
	path := pflag.StringP("path", "p", "", "directory containing tasks.md (created if missing)")
	pflag.Parse()

	workDir, err := resolveWorkDir(*path)
	if err != nil {
		log.Fatalf("Error setting up working directory: %v", err)
	}

	switch {
	case *setupTodoist:
		if err := setupToken(); err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
	case *logout:
		if err := auth.DeleteToken(); err != nil {
			log.Fatalf("Could not delete token: %v", err)
		}
		fmt.Println("Todoist token deleted.")
	case *doSync:
		if err := runSync(workDir); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
	case *list:
		if err := listTasks(workDir, *done); err != nil {
			log.Fatalf("Could not list tasks: %v", err)
		}
	case pflag.NArg() > 0:
		if err := addTask(workDir, strings.Join(pflag.Args(), " ")); err != nil {
			log.Fatalf("Could not add task: %v", err)
		}
	default:
		pflag.Usage()
	}
}

// resolveWorkDir picks the tasks directory: the --path flag wins, then the
// config file, then the current directory.
func resolveWorkDir(flagPath string) (string, error) {
	if flagPath != "" {
		if err := os.MkdirAll(flagPath, 0o755); err != nil {
			return "", err
		}
		return filepath.Abs(flagPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.TasksDir != "" {
		return cfg.TasksDir, nil
	}
	return os.Getwd()
}

// addTask appends one task to the store. A "<-" prefix makes the text a
// subtask of the last top-level task.
func addTask(workDir, text string) error {
	tasksFile := config.TasksFile(workDir)
	tasks, err := task.Load(tasksFile)
	if err != nil {
		return err
	}

	if sub, ok := strings.CutPrefix(strings.TrimSpace(text), "<-"); ok {
		parentID := ""
		for _, t := range tasks {
			if t.IndentLevel == 0 {
				parentID = t.ID
			}
		}
		if parentID == "" {
			return errors.New("no task to attach the subtask to")
		}
		t := task.Parse(strings.TrimSpace(sub))
		t.IndentLevel = 1
		t.ParentID = parentID
		tasks = append(tasks, t)
		if err := task.Save(tasksFile, tasks); err != nil {
			return err
		}
		fmt.Printf("added subtask: %q\n", t.Text)
		return nil
	}

	t := task.Parse(text)
	tasks = append(tasks, t)
	if err := task.Save(tasksFile, tasks); err != nil {
		return err
	}

	fmt.Printf("added task: %q\n", t.Text)
	if !t.Deadline.IsZero() {
		fmt.Printf("  deadline: %s\n", t.Deadline.Format(task.DateLayout))
	}
	if len(t.Tags) > 0 {
		fmt.Printf("  tags: #%s\n", strings.Join(t.Tags, " #"))
	}
	if !t.Reminder.IsZero() {
		fmt.Printf("  reminder: %s\n", t.Reminder.Format(task.DateLayout))
	}
	return nil
}

func listTasks(workDir string, showCompleted bool) error {
	tasks, err := task.Load(config.TasksFile(workDir))
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("no tasks found. add a task first!")
		return nil
	}

	for _, t := range tasks {
		if t.Completed && !showCompleted {
			continue
		}
		box := "☐"
		if t.Completed {
			box = "☑"
		}
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", t.IndentLevel+1), box, t.Text)
		if !t.Deadline.IsZero() {
			line += " !" + t.Deadline.Format(task.DateLayout)
		}
		for _, tag := range t.Tags {
			line += " #" + tag
		}
		if !t.Reminder.IsZero() {
			line += " @" + t.Reminder.Format(task.DateLayout)
		}
		if t.Importance != 0 {
			line += fmt.Sprintf(" $%d", t.Importance)
		}
		if t.Notes != "" {
			line += " //" + t.Notes
		}
		fmt.Println(line)
	}
	return nil
}

func runSync(workDir string) error {
	token, err := auth.Token()
	if err != nil {
		return err
	}

	engine, err := sync.New(sync.Config{
		TasksFile: config.TasksFile(workDir),
		IndexFile: config.IndexFile(workDir),
		Token:     token,
	})
	if err != nil {
		return err
	}

	report, err := engine.Sync(context.Background())
	if report != nil {
		fmt.Println(report.Summary())
	}
	return err
}

// setupToken prompts for a token, verifies it against the API, and stores
// it.
func setupToken() error {
	fmt.Print("Todoist API token: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("empty token")
	}

	if err := auth.Verify(context.Background(), token); err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	if err := auth.StoreToken(token); err != nil {
		return err
	}
	fmt.Println("Token verified and stored.")
	return nil
}
