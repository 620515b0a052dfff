package todoist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Metadata carries the yarmtl fields Todoist cannot hold natively. It is
// encoded into the remote task's description and parsed back on the way
// down; the `[yarmtl:id]` marker terminates the block and identifies the
// task as yarmtl-managed.
type Metadata struct {
	ID         string
	Deadline   string // YYYY-MM-DD, empty when unset
	Reminder   string // YYYY-MM-DD, empty when unset
	Notes      string
	Importance int // 1..5, 0 when unset
}

var (
	metaIDRe         = regexp.MustCompile(`\[yarmtl:([a-f0-9-]+)\]`)
	metaDeadlineRe   = regexp.MustCompile(`!(\d{4}-\d{2}-\d{2})`)
	metaReminderRe   = regexp.MustCompile(`@(\d{4}-\d{2}-\d{2})`)
	metaImportanceRe = regexp.MustCompile(`\$([1-5])`)
	metaNotesRe      = regexp.MustCompile(`//([^$@!\[]+)`)
)

// Encode renders the metadata block. ParseMetadata(Encode()) returns the
// exact field set that was encoded.
func (m Metadata) Encode() string {
	var b strings.Builder
	if m.Deadline != "" {
		fmt.Fprintf(&b, "!%s ", m.Deadline)
	}
	if m.Reminder != "" {
		fmt.Fprintf(&b, "@%s ", m.Reminder)
	}
	if m.Importance != 0 {
		fmt.Fprintf(&b, "$%d ", m.Importance)
	}
	if m.Notes != "" {
		fmt.Fprintf(&b, "//%s ", m.Notes)
	}
	fmt.Fprintf(&b, "[yarmtl:%s]", m.ID)
	return b.String()
}

// ParseMetadata extracts the metadata block from a remote description.
// It returns nil when no yarmtl marker is present; such a task was created
// directly in Todoist and has no local identity yet.
func ParseMetadata(description string) *Metadata {
	idMatch := metaIDRe.FindStringSubmatch(description)
	if idMatch == nil {
		return nil
	}
	m := &Metadata{ID: idMatch[1]}
	if d := metaDeadlineRe.FindStringSubmatch(description); d != nil {
		m.Deadline = d[1]
	}
	if r := metaReminderRe.FindStringSubmatch(description); r != nil {
		m.Reminder = r[1]
	}
	if i := metaImportanceRe.FindStringSubmatch(description); i != nil {
		m.Importance, _ = strconv.Atoi(i[1])
	}
	if n := metaNotesRe.FindStringSubmatch(description); n != nil {
		m.Notes = strings.TrimSpace(n[1])
	}
	return m
}
