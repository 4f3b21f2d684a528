package analysis

import "strings"

const (
	// NoIcon is the sentinel label that suppresses icon derivation.
	NoIcon = "no icon"

	FallbackIcon = "circle"
)

type Icon struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type IconOption struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

type iconEntry struct {
	keywords []string
	icon     string
}

// iconTable is matched first to last; earlier entries win.
var iconTable = []iconEntry{
	{[]string{"tv", "television", "watch", "movie", "show", "screen"}, "tv"},
	{[]string{"music", "song", "playlist", "audio", "concert"}, "music"},
	{[]string{"book", "read", "novel", "study", "textbook"}, "book"},
	{[]string{"album", "photo", "picture", "image"}, "album"},
	{[]string{"ice cream", "icecream", "dessert", "frozen", "gelato"}, "ice-cream"},
	{[]string{"coffee", "tea", "drink", "cafe", "beverage"}, "coffee"},
	{[]string{"apple", "fruit", "food", "snack"}, "apple"},
	{[]string{"car", "drive", "vehicle", "transport", "auto"}, "car"},
	{[]string{"ambulance", "emergency", "hospital", "medical"}, "ambulance"},
	{[]string{"calendar", "schedule", "date", "event", "appointment"}, "calendar"},
	{[]string{"alarm", "clock", "time", "timer", "reminder"}, "alarm-clock"},
	{[]string{"heart", "love", "health", "favorite"}, "heart"},
	{[]string{"user", "person", "profile", "account"}, "user"},
	{[]string{"accessibility", "access", "handicap"}, "accessibility"},
	{[]string{"wallet", "money", "payment", "finance"}, "wallet"},
	{[]string{"wrench", "tool", "fix", "repair", "maintenance"}, "wrench"},
	{[]string{"archive", "storage", "file", "document"}, "archive"},
	{[]string{"cloud", "weather", "sky", "rain"}, "cloud"},
	{[]string{"star", "favorite", "rating", "important"}, "star"},
	{[]string{"bell", "notification", "alert", "reminder"}, "bell"},
	{[]string{"arrow", "down", "download", "direction"}, "a-arrow-down"},
	{[]string{"note", "sticky", "memo"}, "sticky-note"},
	{[]string{"notebook", "journal"}, "notebook"},
	{[]string{"writing", "pen", "write"}, "notebook-pen"},
	{[]string{"notepad", "text", "document"}, "notepad-text"},
	{[]string{"quote", "citation"}, "text-quote"},
	{[]string{"flag", "important", "urgent"}, "flag"},
	{[]string{"bookmark", "save", "mark"}, "bookmark"},
	{[]string{"flower", "nature", "plant"}, "flower"},
	{[]string{"fish", "sea", "water"}, "fish"},
	{[]string{"bird", "animal", "fly"}, "bird"},
	{[]string{"sun", "sunny", "day"}, "sun"},
	{[]string{"moon", "night", "dark"}, "moon"},
	{[]string{"umbrella", "rain", "weather"}, "umbrella"},
	{[]string{"laptop", "computer", "pc"}, "laptop"},
	{[]string{"phone", "mobile", "cell"}, "phone"},
	{[]string{"tablet", "ipad", "device"}, "tablet"},
	{[]string{"printer", "print", "hardware"}, "printer"},
	{[]string{"camera", "photo", "picture"}, "camera"},
	{[]string{"headphones", "audio", "sound"}, "headphones"},
	{[]string{"speaker", "audio", "music"}, "speaker"},
	{[]string{"art", "paint", "drawing"}, "palette"},
	{[]string{"game", "gaming", "play"}, "gamepad"},
	{[]string{"happy", "smile", "good"}, "smile"},
	{[]string{"sad", "frown", "bad"}, "frown"},
	{[]string{"neutral", "meh", "okay"}, "meh"},
}

// SmartIcon picks an icon for a note title. It returns nil when the title is
// empty or asks for no icon. Titles that match no table entry get the fallback
// icon with the colour under cursor; the advanced cursor is returned.
func SmartIcon(title string, cursor ColorCursor) (*Icon, ColorCursor) {
	if title == "" {
		return nil, cursor
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, NoIcon) {
		return nil, cursor
	}

	for _, entry := range iconTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return &Icon{Name: entry.icon}, cursor
			}
		}
	}

	words := strings.Fields(lower)
	for _, entry := range iconTable {
		for _, kw := range entry.keywords {
			for _, word := range words {
				if strings.Contains(kw, word) || strings.Contains(word, kw) {
					return &Icon{Name: entry.icon}, cursor
				}
			}
		}
	}

	color, next := cursor.Next()
	return &Icon{Name: FallbackIcon, Color: color}, next
}

// IconForLabel resolves an icon option label, as stored on a note, to its
// icon. Labels outside the table go through SmartIcon.
func IconForLabel(label string, cursor ColorCursor) (*Icon, ColorCursor) {
	if label == NoIcon {
		return nil, cursor
	}
	for _, entry := range iconTable {
		if entry.keywords[0] == label {
			return &Icon{Name: entry.icon}, cursor
		}
	}
	return SmartIcon(label, cursor)
}

// ResolveNoteIcon picks the icon shown for a note: its stored icon label when
// set, otherwise one derived from the title.
func ResolveNoteIcon(icon, title string, cursor ColorCursor) (*Icon, ColorCursor) {
	if icon != "" {
		return IconForLabel(icon, cursor)
	}
	return SmartIcon(title, cursor)
}

// IsIconLabel reports whether label can be stored as a note icon.
func IsIconLabel(label string) bool {
	if label == "" || label == NoIcon {
		return true
	}
	for _, entry := range iconTable {
		if entry.keywords[0] == label {
			return true
		}
	}
	return false
}

// AllIcons lists the selectable icon options, "no icon" first.
func AllIcons() []IconOption {
	options := make([]IconOption, 0, len(iconTable)+1)
	options = append(options, IconOption{Label: NoIcon})
	for _, entry := range iconTable {
		options = append(options, IconOption{Label: entry.keywords[0], Icon: entry.icon})
	}
	return options
}
