package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var c *LineupCacheService
	ctx := context.Background()

	lineups := []types.PlayerLineup{{PlayerID: "a", Innings: map[string]string{"1": "CF"}}}
	assert.NoError(t, c.SetLineups(ctx, "key", lineups, time.Hour))

	got, err := c.GetLineups(ctx, "key")
	assert.Error(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.InvalidateLineups(ctx, "key"))
}
