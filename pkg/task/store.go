package task

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Header is the constant first line of the task file.
const Header = "# tasks"

// Load reads the markdown task file into a task list. A missing file is an
// empty list, not an error. Only checkbox lines are parsed; everything else
// in the file is ignored. A line indented under a top-level task is linked
// to that task's identity.
func Load(path string) ([]Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read task file %s: %w", path, err)
	}

	var tasks []Task
	lastTopID := ""
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		open := strings.HasPrefix(trimmed, "- [ ]")
		done := strings.HasPrefix(trimmed, "- [x]")
		if !open && !done {
			continue
		}
		text := strings.TrimPrefix(strings.TrimPrefix(trimmed, "- [ ] "), "- [x] ")

		t := Parse(text)
		t.Completed = done
		t.IndentLevel = (len(line) - len(trimmed)) / 2
		if t.IndentLevel > 0 {
			t.ParentID = lastTopID
		} else {
			lastTopID = t.ID
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Save rewrites the whole task file from the in-memory list. The write is
// atomic so a crash never leaves a truncated file behind.
func Save(path string, tasks []Task) error {
	var buf bytes.Buffer
	buf.WriteString(Header + "\n\n")
	for _, t := range tasks {
		buf.WriteString(t.ToMarkdown())
		buf.WriteByte('\n')
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("cannot write task file %s: %w", path, err)
	}
	return nil
}
