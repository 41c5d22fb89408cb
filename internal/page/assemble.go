package page

import (
	"bytes"

	"github.com/ardnew/deckd/internal/proto"
	"github.com/ardnew/deckd/pkg"
)

// dummyFillByte is the safe byte used to fill the padding entry; it is
// never 0x00 or 0x7C so it can never itself introduce a new violation.
const dummyFillByte = 0x01

// Assemble builds a page archive from the given icons and mitigates it
// against the forbidden-byte invariant by searching for a dummy.txt pad
// length before falling back to byte patching. The returned buffer is
// ready to hand to the command sender.
func Assemble(icons []Icon, padCap int) ([]byte, proto.PatchResult) {
	manifest := BuildManifest(icons)

	build := func(p int) []byte {
		a := NewArchive()
		if p > 0 {
			a.Add("dummy.txt", bytes.Repeat([]byte{dummyFillByte}, p))
		}
		a.Add("manifest.json", manifest)
		for _, icon := range icons {
			a.Add("icons/"+icon.Name, icon.Data)
		}
		return a.Bytes()
	}

	return proto.FindSafePad(padCap, build)
}

// Repackage re-parses an externally supplied store-only archive and
// rebuilds it with a dummy.txt pad prefix, preserving the original
// entries and their order while mitigating the forbidden-byte
// invariant. It returns pkg.ErrInvalidParameter if raw is not a
// recognizable store-only archive.
func Repackage(raw []byte, padCap int) ([]byte, proto.PatchResult, error) {
	entries, ok := ReadLocalEntries(raw)
	if !ok {
		return nil, proto.PatchResult{}, pkg.ErrInvalidParameter
	}

	build := func(p int) []byte {
		a := NewArchive()
		if p > 0 {
			a.Add("dummy.txt", bytes.Repeat([]byte{dummyFillByte}, p))
		}
		for _, e := range entries {
			a.Add(e.name, e.data)
		}
		return a.Bytes()
	}

	buf, result := proto.FindSafePad(padCap, build)
	return buf, result, nil
}
