package page

import (
	"encoding/json"
	"testing"
)

func TestBuildManifest_CellKeys(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "0_0"},
		{4, "4_0"},
		{5, "0_1"},
		{13, "3_2"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := cellKey(tt.index); got != tt.want {
				t.Errorf("cellKey(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestBuildManifest_RoundTrip(t *testing.T) {
	icons := []Icon{
		{Index: 2, Name: "c.png", Label: "Play"},
		{Index: 0, Name: "a.png", Label: "Go"},
	}
	raw := BuildManifest(icons)

	var parsed map[string]struct {
		State     int `json:"State"`
		ViewParam []struct {
			Icon string `json:"Icon"`
			Text string `json:"Text"`
		} `json:"ViewParam"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("manifest did not round-trip through encoding/json: %v", err)
	}

	entry, ok := parsed["0_0"]
	if !ok {
		t.Fatal("missing entry for 0_0")
	}
	if entry.ViewParam[0].Icon != "icons/a.png" || entry.ViewParam[0].Text != "Go" {
		t.Errorf("entry 0_0 = %+v", entry)
	}

	entry, ok = parsed["2_0"]
	if !ok {
		t.Fatal("missing entry for 2_0")
	}
	if entry.ViewParam[0].Icon != "icons/c.png" || entry.ViewParam[0].Text != "Play" {
		t.Errorf("entry 2_0 = %+v", entry)
	}
}

func TestBuildManifest_StatusButtonLabelForcedEmpty(t *testing.T) {
	icons := []Icon{{Index: StatusIndex, Name: "status.png", Label: "ignored"}}
	raw := BuildManifest(icons)

	var parsed map[string]struct {
		ViewParam []struct {
			Text string `json:"Text"`
		} `json:"ViewParam"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	entry, ok := parsed["3_2"]
	if !ok {
		t.Fatal("missing entry for button 13 (cell 3_2)")
	}
	if entry.ViewParam[0].Text != "" {
		t.Errorf("status button label = %q, want empty", entry.ViewParam[0].Text)
	}
}

func TestBuildManifest_StripsQuotes(t *testing.T) {
	icons := []Icon{{Index: 0, Name: "a.png", Label: `say "hi"`}}
	raw := BuildManifest(icons)
	var parsed map[string]struct {
		ViewParam []struct {
			Text string `json:"Text"`
		} `json:"ViewParam"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got := parsed["0_0"].ViewParam[0].Text; got != "say hi" {
		t.Errorf("Text = %q, want %q", got, "say hi")
	}
}

func TestBuildManifest_Compact(t *testing.T) {
	raw := BuildManifest([]Icon{{Index: 0, Name: "a.png"}})
	for _, c := range raw {
		if c == ' ' || c == '\n' || c == '\t' {
			t.Fatalf("manifest contains whitespace: %q", raw)
		}
	}
}
