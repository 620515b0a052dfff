package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateLayout is the explicit calendar-date form used by every marker.
const DateLayout = "2006-01-02"

// Task is one entry of the markdown task list.
type Task struct {
	ID          string
	Text        string
	Deadline    time.Time // zero when unset
	Tags        []string
	Reminder    time.Time // zero when unset
	Importance  int       // 1 (most important) .. 5, 0 when unset
	Notes       string
	Completed   bool
	IndentLevel int
	ParentID    string
}

var (
	deadlineRe   = regexp.MustCompile(`!(\d{4}-\d{2}-\d{2})`)
	tagRe        = regexp.MustCompile(`#(\w+)`)
	reminderRe   = regexp.MustCompile(`@(\d{4}-\d{2}-\d{2})`)
	idRe         = regexp.MustCompile(`\[id:([a-f0-9-]+)\]`)
	importanceRe = regexp.MustCompile(`\$([1-5])`)
	notesRe      = regexp.MustCompile(`//([^!@#$]+)`)
)

// nlParser recognizes natural-language date phrases ("next friday", "in 3
// days"). today/tomorrow/yesterday are handled before it so their meaning
// never depends on parser rules.
var nlParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// NewID generates a fresh 8-hex-char task identity. Identities are
// truncated at generation time, never at encoding time, so the encoded
// marker always carries the full identity.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("%x", u[:4])
}

// Parse extracts all markers from a raw task line and returns the Task with
// the clean description text. Parsing never fails: a marker that cannot be
// understood is simply absent from the result.
func Parse(input string) Task {
	id := ""
	if m := idRe.FindStringSubmatch(input); m != nil {
		id = m[1]
	}
	if id == "" {
		id = NewID()
	}

	deadline := parseDateMarker(input, deadlineRe)
	if deadline.IsZero() {
		deadline = extractNaturalDate(input, '!', "#@")
	}

	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(input, -1) {
		tags = append(tags, m[1])
	}

	reminder := parseDateMarker(input, reminderRe)
	if reminder.IsZero() {
		reminder = extractNaturalDate(input, '@', "#!")
	}

	importance := 0
	if m := importanceRe.FindStringSubmatch(input); m != nil {
		importance, _ = strconv.Atoi(m[1])
	}

	notes := ""
	if m := notesRe.FindStringSubmatch(input); m != nil {
		notes = strings.TrimSpace(m[1])
	}

	clean := input
	clean = deadlineRe.ReplaceAllString(clean, "")
	clean = removeNaturalDate(clean, '!', "#@")
	clean = tagRe.ReplaceAllString(clean, "")
	clean = reminderRe.ReplaceAllString(clean, "")
	clean = removeNaturalDate(clean, '@', "#!")
	clean = notesRe.ReplaceAllString(clean, "")
	clean = importanceRe.ReplaceAllString(clean, "")
	clean = idRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	return Task{
		ID:         id,
		Text:       clean,
		Deadline:   deadline,
		Tags:       tags,
		Reminder:   reminder,
		Importance: importance,
		Notes:      notes,
	}
}

// ToMarkdown encodes the task back into its line form. Field order is
// fixed: text, identity, deadline, tags, reminder, importance, notes.
// Parse(ToMarkdown(t)) reproduces t field-for-field.
func (t Task) ToMarkdown() string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", t.IndentLevel))
	fmt.Fprintf(&b, "- %s %s [id:%s]", checkbox, t.Text, t.ID)
	if !t.Deadline.IsZero() {
		fmt.Fprintf(&b, " !%s", t.Deadline.Format(DateLayout))
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(&b, " #%s", tag)
	}
	if !t.Reminder.IsZero() {
		fmt.Fprintf(&b, " @%s", t.Reminder.Format(DateLayout))
	}
	if t.Importance != 0 {
		fmt.Fprintf(&b, " $%d", t.Importance)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, " //%s", t.Notes)
	}
	return b.String()
}

// DateOnly normalizes a time to its calendar date at UTC midnight, so dates
// parsed from explicit markers and dates resolved from natural phrases
// compare equal.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDateMarker(input string, re *regexp.Regexp) time.Time {
	m := re.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}
	}
	d, err := time.Parse(DateLayout, m[1])
	if err != nil {
		// Malformed explicit date; the natural-language fallback gets
		// its chance on the same input.
		return time.Time{}
	}
	return d
}

// naturalSpan returns the length of the phrase following a marker: up to
// the next "//", any of the stop runes, or end of input.
func naturalSpan(after, stops string) int {
	end := len(after)
	if i := strings.Index(after, "//"); i >= 0 && i < end {
		end = i
	}
	if i := strings.IndexAny(after, stops); i >= 0 && i < end {
		end = i
	}
	return end
}

// explicitShaped reports whether a phrase is only digits and dashes, i.e.
// a (possibly malformed) explicit date rather than a natural phrase.
func explicitShaped(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9') && r != '-' {
			return false
		}
	}
	return true
}

func extractNaturalDate(input string, marker byte, stops string) time.Time {
	start := strings.IndexByte(input, marker)
	if start < 0 {
		return time.Time{}
	}
	after := input[start+1:]
	phrase := strings.TrimSpace(after[:naturalSpan(after, stops)])
	if phrase == "" || explicitShaped(phrase) {
		return time.Time{}
	}

	today := DateOnly(time.Now())
	switch phrase {
	case "today":
		return today
	case "tomorrow":
		return today.AddDate(0, 0, 1)
	case "yesterday":
		return today.AddDate(0, 0, -1)
	}

	r, err := nlParser.Parse(phrase, time.Now())
	if err != nil || r == nil {
		return time.Time{}
	}
	return DateOnly(r.Time)
}

func removeNaturalDate(input string, marker byte, stops string) string {
	start := strings.IndexByte(input, marker)
	if start < 0 {
		return input
	}
	after := input[start+1:]
	end := naturalSpan(after, stops)
	phrase := strings.TrimSpace(after[:end])
	if phrase == "" || explicitShaped(phrase) {
		return input
	}
	return input[:start] + after[end:]
}
