package protocol

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
}

func TestGenerate_Format(t *testing.T) {
	g := &Generator{Prefix: DefaultPrefix, Now: fixedClock, Suffix: func() int { return 123 }}
	assert.Equal(t, "CANAA-20240102030405-123", g.Generate())
}

func TestGenerate_MatchesPattern(t *testing.T) {
	g := NewGenerator("")
	for i := 0; i < 500; i++ {
		p := g.Generate()
		require.Regexp(t, Pattern, p)

		parts := strings.Split(p, "-")
		n, err := strconv.Atoi(parts[2])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100)
		assert.LessOrEqual(t, n, 999)
	}
}

func TestGenerate_CustomPrefix(t *testing.T) {
	g := NewGenerator("ANG.2")
	p := g.Generate()
	assert.Regexp(t, PatternFor("ANG.2"), p)
	assert.NotRegexp(t, Pattern, p)
}

func TestUnique_RetriesWhileTaken(t *testing.T) {
	suffixes := []int{111, 222, 333}
	i := 0
	g := &Generator{
		Prefix: DefaultPrefix,
		Now:    fixedClock,
		Suffix: func() int {
			s := suffixes[i]
			i++
			return s
		},
	}

	taken := map[string]bool{
		"CANAA-20240102030405-111": true,
		"CANAA-20240102030405-222": true,
	}
	var checked []string
	p, err := g.Unique(context.Background(), func(_ context.Context, candidate string) (bool, error) {
		checked = append(checked, candidate)
		return taken[candidate], nil
	})

	require.NoError(t, err)
	assert.Equal(t, "CANAA-20240102030405-333", p)
	assert.Len(t, checked, 3)
}

func TestUnique_LookupError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewGenerator("").Unique(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestUnique_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := NewGenerator("").Unique(ctx, func(context.Context, string) (bool, error) {
		calls++
		if calls == 5 {
			cancel()
		}
		return true, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, calls)
}
