package analysis

import "strings"

// Separator is the token that, alone on a line, delimits pasted tweets.
const Separator = "---"

// NormalizedInput is the single string or the ordered item list a mode
// expects. Exactly one of Text or Items is meaningful, depending on Mode.
type NormalizedInput struct {
	Mode  Mode
	Text  string
	Items []string
}

// IsList reports whether the input is in item-list form.
func (n NormalizedInput) IsList() bool {
	return n.Mode.IsMultiItem()
}

// Normalize reshapes raw text for the given mode. Single-item modes reject
// blank input with ErrEmptyInput. Multi-item modes always yield at least one
// item, falling back to the trimmed raw text (possibly empty) so a
// handle-only request can still be made.
func Normalize(raw string, mode Mode) (NormalizedInput, error) {
	if !mode.IsAPI() {
		return NormalizedInput{}, &UnsupportedModeError{Mode: mode}
	}

	if mode.IsMultiItem() {
		return NormalizedInput{Mode: mode, Items: SplitItems(raw)}, nil
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return NormalizedInput{}, ErrEmptyInput
	}
	return NormalizedInput{Mode: mode, Text: text}, nil
}

// SplitItems breaks pasted text into items. A blank line (two or more
// consecutive line breaks) or a line holding only the separator token ends
// the current item; separator lines are never items themselves. Lines
// inside an item keep their original breaks.
func SplitItems(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var (
		items   []string
		current []string
	)
	flush := func() {
		if frag := strings.TrimSpace(strings.Join(current, "\n")); frag != "" {
			items = append(items, frag)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == Separator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(items) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	return items
}
