package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move h:back l:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (a, e, d, etc.)
	Action []Hint // Action hints (Enter, Tab, etc.)
	System []Hint // System hints (q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeAdd, ModeRename:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete, ModeConfirmDeleteAll:
		return HintSet{
			Action: []Hint{{Key: "Enter/y", Desc: "confirm"}},
			System: []Hint{{Key: "Esc/n", Desc: "cancel"}},
		}
	}
	return a.getNormalModeHints()
}

func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav:    []Hint{{Key: "j/k", Desc: "move"}},
		System: []Hint{{Key: "q", Desc: "quit"}},
	}

	if a.nav.Screen == ScreenToDos {
		hints.Nav = append(hints.Nav, Hint{Key: "h", Desc: "back"})
	} else if !a.editing {
		hints.Nav = append(hints.Nav, Hint{Key: "l", Desc: "open"})
	}

	if a.editing {
		hints.Action = []Hint{{Key: "Enter", Desc: "rename"}}
		hints.Edit = []Hint{
			{Key: "d", Desc: "delete"},
			{Key: "D", Desc: "delete all"},
			{Key: "e", Desc: "done"},
		}
	} else {
		hints.Edit = []Hint{
			{Key: "a", Desc: "add"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "delete"},
			{Key: "y", Desc: "copy"},
		}
	}
	return hints
}
