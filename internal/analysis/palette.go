package analysis

var palette = []string{
	"red", "blue", "green", "yellow", "purple", "pink", "orange",
	"teal", "indigo", "cyan", "amber", "lime", "emerald", "rose",
}

// ColorCursor is the position in the fallback icon palette. The zero value
// starts at the first colour. Each session keeps its own cursor.
type ColorCursor int

// Next returns the colour under the cursor and the cursor advanced by one,
// wrapping to the start once every colour has been handed out.
func (c ColorCursor) Next() (string, ColorCursor) {
	i := int(c) % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i], ColorCursor((i + 1) % len(palette))
}

func PaletteSize() int {
	return len(palette)
}
