package todoist

import "testing"

func TestMetadataEncodeParseRoundTrip(t *testing.T) {
	meta := Metadata{
		ID:         "abcd1234",
		Deadline:   "2026-01-30",
		Reminder:   "2026-01-28",
		Notes:      "Important task",
		Importance: 3,
	}

	encoded := meta.Encode()
	decoded := ParseMetadata(encoded)
	if decoded == nil {
		t.Fatalf("ParseMetadata(%q) returned nil", encoded)
	}
	if *decoded != meta {
		t.Errorf("Round trip changed the metadata: %+v != %+v", *decoded, meta)
	}
}

func TestMetadataPartialFields(t *testing.T) {
	meta := Metadata{ID: "abcd1234", Deadline: "2026-01-30"}
	decoded := ParseMetadata(meta.Encode())
	if decoded == nil {
		t.Fatal("ParseMetadata returned nil")
	}
	if *decoded != meta {
		t.Errorf("Round trip changed the metadata: %+v != %+v", *decoded, meta)
	}
}

func TestParseMetadataWithoutMarker(t *testing.T) {
	if got := ParseMetadata("Regular task description without metadata"); got != nil {
		t.Errorf("Expected nil for a description without a yarmtl marker, got %+v", got)
	}
}

func TestParseMetadataEmbeddedInDescription(t *testing.T) {
	// The block must be parseable even when the service echoes extra text
	// around it.
	decoded := ParseMetadata("some human text\n!2026-01-30 $1 [yarmtl:deadbeef]")
	if decoded == nil {
		t.Fatal("ParseMetadata returned nil")
	}
	if decoded.ID != "deadbeef" || decoded.Deadline != "2026-01-30" || decoded.Importance != 1 {
		t.Errorf("Unexpected fields: %+v", decoded)
	}
}
