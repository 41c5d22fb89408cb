package page

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/ardnew/deckd/internal/proto"
)

func TestAssemble_ProducesCleanArchive(t *testing.T) {
	icons := []Icon{
		{Index: 0, Name: "a.png", Label: "One", Data: []byte("aaa")},
		{Index: 1, Name: "b.png", Label: "Two", Data: []byte("bbb")},
	}
	buf, result := Assemble(icons, proto.DefaultPadCap)

	if !proto.Satisfies(buf) && result.Patched == 0 {
		t.Fatal("assembled buffer neither satisfies invariant nor recorded a patch")
	}

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		t.Fatalf("assembled buffer is not a valid ZIP: %v", err)
	}
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	if result.PadUsed > 0 {
		if names[0] != "dummy.txt" {
			t.Errorf("expected dummy.txt first when pad used, got %v", names)
		}
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	icons := []Icon{{Index: 0, Name: "a.png", Label: "One", Data: []byte("same bytes")}}
	buf1, r1 := Assemble(icons, proto.DefaultPadCap)
	buf2, r2 := Assemble(icons, proto.DefaultPadCap)
	if r1 != r2 {
		t.Fatalf("results differ: %+v vs %+v", r1, r2)
	}
	if !bytes.Equal(buf1, buf2) {
		t.Error("repeated Assemble calls with identical input produced different bytes")
	}
}

func TestAssemble_ManifestPresent(t *testing.T) {
	icons := []Icon{{Index: 0, Name: "a.png", Label: "One", Data: []byte("x")}}
	buf, _ := Assemble(icons, proto.DefaultPadCap)

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range r.File {
		if f.Name == "manifest.json" {
			found = true
			rc, _ := f.Open()
			data, _ := io.ReadAll(rc)
			rc.Close()
			if !bytes.Contains(data, []byte(`"0_0"`)) {
				t.Errorf("manifest missing expected cell: %s", data)
			}
		}
	}
	if !found {
		t.Fatal("manifest.json entry missing from assembled archive")
	}
}

func TestRepackage_PreservesEntries(t *testing.T) {
	original := NewArchive()
	original.Add("manifest.json", []byte(`{"0_0":{}}`))
	original.Add("icons/a.png", []byte("icon-bytes"))
	raw := original.Bytes()

	buf, _, err := Repackage(raw, proto.DefaultPadCap)
	if err != nil {
		t.Fatalf("Repackage() error = %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		t.Fatalf("repackaged buffer is not a valid ZIP: %v", err)
	}
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	foundManifest, foundIcon := false, false
	for _, n := range names {
		if n == "manifest.json" {
			foundManifest = true
		}
		if n == "icons/a.png" {
			foundIcon = true
		}
	}
	if !foundManifest || !foundIcon {
		t.Errorf("repackaged entries = %v, missing original entries", names)
	}
}

func TestRepackage_RejectsInvalidInput(t *testing.T) {
	if _, _, err := Repackage([]byte("garbage"), proto.DefaultPadCap); err == nil {
		t.Fatal("expected error repackaging non-ZIP input")
	}
}
