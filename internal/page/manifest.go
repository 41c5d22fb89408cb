package page

import (
	"fmt"
	"strconv"
	"strings"
)

// GridCols and GridRows describe the 5x3 button grid; button 13
// occupies the double-wide tile at cell 3_2 and never renders a label.
const (
	GridCols    = 5
	GridRows    = 3
	StatusIndex = 13
)

// Icon is one entry of a page update: a button index 0..13, the icon
// file name stored under icons/ in the archive, and its bytes. Label
// is optional and is forced empty for StatusIndex.
type Icon struct {
	Index int
	Name  string
	Label string
	Data  []byte
}

// viewParam mirrors the device's manifest entry shape.
type viewParam struct {
	Icon string `json:"Icon"`
	Text string `json:"Text"`
}

type cell struct {
	State     int         `json:"State"`
	ViewParam []viewParam `json:"ViewParam"`
}

// cellKey returns the "<col>_<row>" key for a button index.
func cellKey(index int) string {
	col := index % GridCols
	row := index / GridCols
	return strconv.Itoa(col) + "_" + strconv.Itoa(row)
}

// stripQuotes removes embedded double quotes from a label; it does not
// escape, matching the device's manifest format exactly.
func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// BuildManifest produces the compact JSON manifest for the given icon
// items. Entries are included only for the supplied buttons in index
// order, regardless of input order.
func BuildManifest(icons []Icon) []byte {
	var b strings.Builder
	b.WriteByte('{')

	sorted := make([]Icon, len(icons))
	copy(sorted, icons)
	sortByIndex(sorted)

	for i, icon := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		label := icon.Label
		if icon.Index == StatusIndex {
			label = ""
		}
		label = stripQuotes(label)

		fmt.Fprintf(&b, `"%s":{"State":0,"ViewParam":[{"Icon":"icons/%s","Text":"%s"}]}`,
			cellKey(icon.Index), icon.Name, label)
	}

	b.WriteByte('}')
	return []byte(b.String())
}

// sortByIndex sorts icons in place by button index using a simple
// insertion sort; page updates never carry more than 14 entries.
func sortByIndex(icons []Icon) {
	for i := 1; i < len(icons); i++ {
		for j := i; j > 0 && icons[j-1].Index > icons[j].Index; j-- {
			icons[j-1], icons[j] = icons[j], icons[j-1]
		}
	}
}
