// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/pkg/types"
)

func newExplorer() *explorer.Explorer[types.IndustryCode, types.SourceType] {
	return explorer.New(types.SourceTypes, func(c types.IndustryCode) types.SourceType { return c.SourceType })
}

func codes(st types.SourceType, n int) []types.IndustryCode {
	out := make([]types.IndustryCode, n)
	for i := range out {
		out[i] = types.IndustryCode{SourceType: st, Code: string(rune('A' + i)), Description: "d"}
	}
	return out
}

func TestSearch_Loads(t *testing.T) {
	e := newExplorer()
	s := New(e, func(_ context.Context, q string) ([]types.IndustryCode, error) {
		assert.Equal(t, "steel", q)
		return codes(types.SourceUSSIC, 3), nil
	})

	require.NoError(t, s.Search(context.Background(), "  steel "))
	snap := s.Snapshot()
	assert.Equal(t, "steel", snap.Query)
	assert.Len(t, snap.FilteredResults, 3)
	assert.Equal(t, uint64(1), s.Sequence())
}

func TestSearch_EmptyQuery(t *testing.T) {
	called := false
	s := New(newExplorer(), func(context.Context, string) ([]types.IndustryCode, error) {
		called = true
		return nil, nil
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		err := s.Search(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.ErrorIs(t, err, types.ErrEmptyQuery)
	}
	assert.False(t, called)
	assert.Equal(t, uint64(0), s.Sequence())
}

func TestSearch_FailureLeavesStateIntact(t *testing.T) {
	e := newExplorer()
	fail := false
	boom := errors.New("boom")
	s := New(e, func(context.Context, string) ([]types.IndustryCode, error) {
		if fail {
			return nil, boom
		}
		return codes(types.SourceUKSIC, 25), nil
	})

	require.NoError(t, s.Search(context.Background(), "first"))
	s.Do(func(e *explorer.Explorer[types.IndustryCode, types.SourceType]) { e.GoToPage(3) })

	fail = true
	err := s.Search(context.Background(), "second")
	require.ErrorIs(t, err, boom)

	snap := s.Snapshot()
	assert.Equal(t, "first", snap.Query)
	assert.Equal(t, 3, snap.CurrentPage)
	assert.Len(t, snap.FilteredResults, 25)
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	e := newExplorer()
	s := New(e, func(context.Context, string) ([]types.IndustryCode, error) { return nil, nil })

	require.NoError(t, s.Search(context.Background(), "zzz"))
	assert.Equal(t, "No results found.", s.Snapshot().StatusMessage)
}

func TestSearch_LastLoadWins(t *testing.T) {
	e := newExplorer()
	release := make(chan struct{})
	started := make(chan struct{})

	s := New(e, func(ctx context.Context, q string) ([]types.IndustryCode, error) {
		if q == "slow" {
			close(started)
			<-release
			return codes(types.SourceISIC, 7), nil
		}
		return codes(types.SourceEUNACE, 2), nil
	})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = s.Search(context.Background(), "slow")
	}()

	<-started
	require.NoError(t, s.Search(context.Background(), "fast"))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrStale)
	snap := s.Snapshot()
	assert.Equal(t, "fast", snap.Query)
	assert.Len(t, snap.FilteredResults, 2)
}

func TestSearch_StaleFailureIsDiscarded(t *testing.T) {
	var staleCount int
	release := make(chan struct{})
	started := make(chan struct{})
	s := New(newExplorer(), func(ctx context.Context, q string) ([]types.IndustryCode, error) {
		if q == "slow" {
			close(started)
			<-release
			return nil, errors.New("late failure")
		}
		return codes(types.SourceUSSIC, 1), nil
	}, OnStale(func() { staleCount++ }))

	done := make(chan error, 1)
	go func() { done <- s.Search(context.Background(), "slow") }()
	<-started
	require.NoError(t, s.Search(context.Background(), "fast"))
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, 1, staleCount)
}

func TestSearch_Timeout(t *testing.T) {
	s := New(newExplorer(), func(ctx context.Context, _ string) ([]types.IndustryCode, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout(10*time.Millisecond))

	err := s.Search(context.Background(), "hang")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFile_RoundTrip(t *testing.T) {
	e := newExplorer()
	records := append(codes(types.SourceUSSIC, 20), codes(types.SourceJapanSIC, 15)...)
	records[0].AdditionalData = types.Attributes{"division": "D"}
	e.Load(records, "textiles")
	e.SetFilter(types.SourceUKSIC, false)
	e.SetPageSize(25)
	e.NextPage()

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, WriteFile(path, NewFile(e, "localhost:8000")))

	f, err := ReadFile[types.IndustryCode](path)
	require.NoError(t, err)
	assert.Equal(t, "textiles", f.Query)
	assert.Equal(t, "localhost:8000", f.Host)
	assert.Equal(t, 35, f.Summary.Total)
	assert.Equal(t, 20, f.Summary.Counts["US SIC"])
	assert.Equal(t, "D", f.Results[0].AdditionalData["division"])

	restored := newExplorer()
	Restore(f, restored)
	assert.Equal(t, 2, restored.CurrentPage())
	assert.Equal(t, 25, restored.PerPage())
	assert.False(t, restored.Selected(types.SourceUKSIC))
	assert.Equal(t, e.EncodeURLState(), restored.EncodeURLState())
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile[types.IndustryCode](filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
