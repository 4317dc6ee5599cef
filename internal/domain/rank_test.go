package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/questguild/questboard-api/internal/domain"
)

func TestRank_IsValid(t *testing.T) {
	for _, rank := range domain.Ranks {
		assert.True(t, rank.IsValid(), "rank %v", rank)
	}

	assert.False(t, domain.Rank("X").IsValid())
	assert.False(t, domain.Rank("").IsValid())
	assert.False(t, domain.Rank("ss").IsValid())
}

func TestRank_InBand(t *testing.T) {
	tests := []struct {
		rank   domain.Rank
		points int
		want   bool
	}{
		{domain.RankSS, 500, true},
		{domain.RankSS, 1000, true},
		{domain.RankSS, 499, false},
		{domain.RankB, 50, true},
		{domain.RankB, 100, true},
		{domain.RankB, 101, false},
		{domain.RankF, 5, true},
		{domain.RankF, 10, true},
		{domain.RankF, 11, false},
		{domain.RankF, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rank.InBand(tt.points), "%v with %v points", tt.rank, tt.points)
	}
}

func TestOrder_IsFull(t *testing.T) {
	assert.False(t, domain.Order{MaxSlots: 3, TakenSlots: 2}.IsFull())
	assert.True(t, domain.Order{MaxSlots: 3, TakenSlots: 3}.IsFull())
}
