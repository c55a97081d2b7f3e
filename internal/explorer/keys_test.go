// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleKey(t *testing.T) {
	e := explorerWithPages(4)

	assert.True(t, e.HandleKey(KeyArrowRight, FocusNone))
	assert.Equal(t, 2, e.CurrentPage())
	assert.True(t, e.HandleKey(KeyEnd, FocusNone))
	assert.Equal(t, 4, e.CurrentPage())
	assert.True(t, e.HandleKey(KeyArrowRight, FocusNone))
	assert.Equal(t, 4, e.CurrentPage())
	assert.True(t, e.HandleKey(KeyArrowLeft, FocusNone))
	assert.Equal(t, 3, e.CurrentPage())
	assert.True(t, e.HandleKey(KeyHome, FocusNone))
	assert.Equal(t, 1, e.CurrentPage())
	assert.False(t, e.HandleKey("PageDown", FocusNone))
}

func TestHandleKey_SuppressedInTextInput(t *testing.T) {
	e := explorerWithPages(4)
	assert.False(t, e.HandleKey(KeyEnd, FocusTextInput))
	assert.Equal(t, 1, e.CurrentPage())
}

func TestHandleKey_SuppressedWithoutResults(t *testing.T) {
	e := newTestExplorer()
	e.Load(nil, "q")
	assert.False(t, e.HandleKey(KeyArrowRight, FocusNone))
}
