package task

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"
	"time"
)

// Fingerprint returns a deterministic hash over the task's content:
// description, deadline, tags, reminder, completion flag, notes and
// importance. Identity is deliberately excluded so that re-identifying a
// task does not look like a content change. Fields are written with
// unambiguous separators so no two distinct field sets collide by
// construction.
func Fingerprint(t Task) string {
	h := sha256.New()
	writeField(h, t.Text)
	writeField(h, formatDate(t.Deadline))
	for _, tag := range t.Tags {
		io.WriteString(h, tag)
		h.Write([]byte{0x1f})
	}
	h.Write([]byte{0x00})
	writeField(h, formatDate(t.Reminder))
	writeField(h, strconv.FormatBool(t.Completed))
	writeField(h, t.Notes)
	writeField(h, strconv.Itoa(t.Importance))
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(w io.Writer, s string) {
	io.WriteString(w, s)
	w.Write([]byte{0x00})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
