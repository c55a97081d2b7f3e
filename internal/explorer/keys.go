// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

// Key names a navigation key.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
)

// Focus describes where input focus is when a key arrives.
type Focus int

const (
	FocusNone Focus = iota
	// FocusTextInput means a text-input-like control has focus; navigation
	// keys belong to it.
	FocusTextInput
)

// HandleKey applies the navigation bound to k and reports whether the key
// was consumed. Keys are ignored while a text input has focus and while the
// filtered view is empty.
func (e *Explorer[R, D]) HandleKey(k Key, focus Focus) bool {
	if focus == FocusTextInput || len(e.filtered) == 0 {
		return false
	}
	switch k {
	case KeyArrowLeft:
		e.PrevPage()
	case KeyArrowRight:
		e.NextPage()
	case KeyHome:
		e.FirstPage()
	case KeyEnd:
		e.LastPage()
	default:
		return false
	}
	return true
}
