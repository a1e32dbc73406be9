package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForCounts(t *testing.T) {
	tests := []struct {
		name     string
		posts    int
		wins     int
		expected UserLevel
	}{
		{name: "fresh account", posts: 0, wins: 0, expected: UserLevelNovice},
		{name: "posts without wins stays novice", posts: 20, wins: 0, expected: UserLevelNovice},
		{name: "wins without posts stays novice", posts: 0, wins: 10, expected: UserLevelNovice},
		{name: "columnist boundary", posts: 5, wins: 1, expected: UserLevelColumnist},
		{name: "columnist but short of master wins", posts: 15, wins: 4, expected: UserLevelColumnist},
		{name: "master boundary", posts: 15, wins: 5, expected: UserLevelMaster},
		{name: "well past master", posts: 40, wins: 12, expected: UserLevelMaster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForCounts(tt.posts, tt.wins))
		})
	}
}
