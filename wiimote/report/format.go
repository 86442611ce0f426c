package report

import "strconv"

// MaxLineLen bounds a formatted event line, newline included. Lines that
// would exceed it are truncated at a token boundary, never mid-token.
const MaxLineLen = 255

// NoButtonsSentinel is emitted for a button report with no buttons pressed.
const NoButtonsSentinel = "no buttons pressed"

// Format renders a decoded event as a newline-terminated text line.
// KindIgnored produces nil.
func Format(d Decoded) []byte {
	switch d.Kind {
	case KindButtons:
		return appendTokens(d.Buttons.tokens(), MaxLineLen)
	case KindBattery:
		line := "battery: " + strconv.Itoa(int(d.Battery.Level)) + "\n"
		return []byte(line)
	default:
		return nil
	}
}

// tokens returns the names of the pressed buttons in wire order.
func (e ButtonEvent) tokens() []string {
	var out []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{e.DPadRight, "dpad_right"},
		{e.DPadLeft, "dpad_left"},
		{e.DPadDown, "dpad_down"},
		{e.DPadUp, "dpad_up"},
		{e.Plus, "plus"},
		{e.Minus, "minus"},
		{e.Home, "home"},
		{e.A, "A"},
		{e.B, "B"},
		{e.One, "1"},
		{e.Two, "2"},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		out = []string{NoButtonsSentinel}
	}
	return out
}

// appendTokens joins tokens with single spaces into a newline-terminated
// line of at most limit bytes. A token that would push the line past the
// limit is dropped along with everything after it.
func appendTokens(tokens []string, limit int) []byte {
	line := make([]byte, 0, limit)
	for i, tok := range tokens {
		need := len(tok)
		if i > 0 {
			need++ // separating space
		}
		if len(line)+need > limit-1 {
			break
		}
		if i > 0 {
			line = append(line, ' ')
		}
		line = append(line, tok...)
	}
	return append(line, '\n')
}
