package domain

import "testing"

func TestNewDocument_Validation(t *testing.T) {
	if _, err := NewDocument("", "text", nil, nil); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewDocument("d1", "", nil, nil); err == nil {
		t.Error("expected error for empty text")
	}
	doc, err := NewDocument("d1", "text", map[string]string{MetaTitle: "T"}, []float32{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "d1" || doc.Text != "text" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestNewDocument_CopiesMetadata(t *testing.T) {
	meta := map[string]string{MetaRegion: "Europe"}
	doc, err := NewDocument("d1", "text", meta, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta[MetaRegion] = "Asia"
	if doc.Metadata[MetaRegion] != "Europe" {
		t.Errorf("stored metadata mutated through caller map: %q", doc.Metadata[MetaRegion])
	}
}

func TestMatchesFilter(t *testing.T) {
	doc := Document{
		ID:   "d1",
		Text: "text",
		Metadata: map[string]string{
			MetaRegion: "Europe",
			MetaDomain: "arable",
		},
	}

	tests := []struct {
		name   string
		filter map[string]string
		want   bool
	}{
		{"nil filter matches", nil, true},
		{"empty filter matches", map[string]string{}, true},
		{"single key match", map[string]string{MetaRegion: "Europe"}, true},
		{"all keys match", map[string]string{MetaRegion: "Europe", MetaDomain: "arable"}, true},
		{"one key mismatch", map[string]string{MetaRegion: "Europe", MetaDomain: "orchard"}, false},
		{"value mismatch", map[string]string{MetaRegion: "Asia"}, false},
		{"case sensitive", map[string]string{MetaRegion: "europe"}, false},
		{"missing key", map[string]string{MetaCategory: "pest"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.MatchesFilter(tt.filter); got != tt.want {
				t.Errorf("MatchesFilter(%v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	withTitle := Document{Metadata: map[string]string{MetaTitle: "Aphid SOP"}}
	if got := withTitle.Title(); got != "Aphid SOP" {
		t.Errorf("Title() = %q", got)
	}

	noTitle := Document{Metadata: map[string]string{}}
	if got := noTitle.Title(); got != "Unknown Title" {
		t.Errorf("Title() = %q, want Unknown Title", got)
	}

	nilMeta := Document{}
	if got := nilMeta.Title(); got != "Unknown Title" {
		t.Errorf("Title() = %q, want Unknown Title", got)
	}
}
