// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixRefinement keeps records whose code ends in one of its digits.
type suffixRefinement []string

func (s suffixRefinement) Match(r record) bool {
	for _, d := range s {
		if strings.HasSuffix(r.Code, d) {
			return true
		}
	}
	return false
}

func (s suffixRefinement) Tokens() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = "suffix:" + d
	}
	return out
}

func parseSuffix(tokens []string) Refinement[record] {
	var s suffixRefinement
	for _, t := range tokens {
		if d, ok := strings.CutPrefix(t, "suffix:"); ok && d != "" {
			s = append(s, d)
		}
	}
	if len(s) == 0 {
		return nil
	}
	return s
}

func newRefinableExplorer() *Explorer[record, tag] {
	e := newTestExplorer()
	e.SetRefinementParser(parseSuffix)
	return e
}

func TestSetRefinement_EncodesTokens(t *testing.T) {
	e := newRefinableExplorer()
	e.Load(makeRecords(map[tag]int{tagUS: 20, tagUK: 20}, tagUS, tagUK), "q")
	e.SetRefinement(suffixRefinement{"0"})

	assert.Equal(t, 4, e.FilteredCount())
	assert.Equal(t, []string{"suffix:0"}, e.RefinementTokens())

	v, err := url.ParseQuery(e.EncodeURLState())
	require.NoError(t, err)
	assert.Equal(t, "suffix:0", v.Get(ParamRefine))
	assert.False(t, v.Has(ParamFilters))
}

func TestRefinement_RoundTrip(t *testing.T) {
	records := makeRecords(map[tag]int{tagUS: 30, tagUK: 30}, tagUS, tagUK)
	src := newRefinableExplorer()
	src.Load(records, "q")
	src.SetRefinement(suffixRefinement{"1", "2"})
	src.SetPageSize(25)
	state := src.EncodeURLState()

	dst := newRefinableExplorer()
	dst.DecodeURLState(state)
	dst.Load(records, dst.Query())

	assert.Equal(t, src.FilteredCount(), dst.FilteredCount())
	assert.Equal(t, 12, dst.FilteredCount())
	assert.Equal(t, []string{"suffix:1", "suffix:2"}, dst.RefinementTokens())
	assert.Equal(t, state, dst.EncodeURLState())
}

func TestDecodeURLState_RefinementInFilters(t *testing.T) {
	records := makeRecords(map[tag]int{tagUS: 20, tagUK: 20}, tagUS, tagUK)

	e := newRefinableExplorer()
	e.DecodeURLState("filters=UK+SIC,suffix:0")
	e.Load(records, "q")
	assert.Equal(t, []tag{tagUK}, e.SelectedDiscriminants())
	assert.Equal(t, 2, e.FilteredCount())

	// Only refinement entries: the selection stays at all.
	e.DecodeURLState("filters=suffix:0")
	e.Load(records, "q")
	assert.True(t, e.AllSelected())
	assert.Equal(t, 4, e.FilteredCount())

	// refine overrides entries carried in filters.
	e.DecodeURLState("filters=suffix:0&refine=suffix:5")
	assert.Equal(t, []string{"suffix:0", "suffix:5"}, e.RefinementTokens())
}

func TestDecodeURLState_ClearsRefinement(t *testing.T) {
	e := newRefinableExplorer()
	e.Load(makeRecords(map[tag]int{tagUS: 20}, tagUS), "q")
	e.SetRefinement(suffixRefinement{"0"})

	e.DecodeURLState("q=q")
	assert.Nil(t, e.RefinementTokens())
	assert.Equal(t, 20, e.FilteredCount())
}

func TestDecodeURLState_WithoutParserKeepsRefinement(t *testing.T) {
	e := newTestExplorer()
	e.Load(makeRecords(map[tag]int{tagUS: 20}, tagUS), "q")
	e.Refine(func(r record) bool { return strings.HasSuffix(r.Code, "0") })

	e.DecodeURLState("refine=suffix:1")
	assert.Equal(t, 2, e.FilteredCount())
	assert.Empty(t, e.URLValues().Get(ParamRefine))
}

func TestSetRefinementTokens(t *testing.T) {
	plain := newTestExplorer()
	assert.False(t, plain.CanRefine())
	assert.False(t, plain.SetRefinementTokens([]string{"suffix:0"}))

	e := newRefinableExplorer()
	e.Load(makeRecords(map[tag]int{tagUS: 40}, tagUS), "q")
	e.GoToPage(3)

	assert.True(t, e.SetRefinementTokens([]string{" suffix:0 ", "", "suffix:0"}))
	assert.Equal(t, 1, e.CurrentPage())
	assert.Equal(t, []string{"suffix:0"}, e.RefinementTokens())
	assert.Equal(t, 4, e.FilteredCount())

	assert.True(t, e.SetRefinementTokens(nil))
	assert.Nil(t, e.RefinementTokens())
	assert.Equal(t, 40, e.FilteredCount())
}

func TestDecodeURLState_PendingPageWithRefinement(t *testing.T) {
	records := makeRecords(map[tag]int{tagUS: 100}, tagUS)
	e := newRefinableExplorer()
	e.DecodeURLState("refine=suffix:1,suffix:2,suffix:3&page=3")
	e.Load(records, "q")

	assert.Equal(t, 30, e.FilteredCount())
	assert.Equal(t, 3, e.CurrentPage())
}
