package models

import "time"

// BattleStatus defines the lifecycle state of a battle.
type BattleStatus string

const (
	// BattleStatusPending is a battle that has not opened for voting.
	BattleStatusPending BattleStatus = "pending"
	// BattleStatusActive is a battle currently accepting votes.
	BattleStatusActive BattleStatus = "active"
	// BattleStatusVotingClosed is a battle whose ballot closed but has no winner yet.
	BattleStatusVotingClosed BattleStatus = "voting_closed"
	// BattleStatusCompleted is a resolved battle with a winner. Terminal.
	BattleStatusCompleted BattleStatus = "completed"
	// BattleStatusCancelled is an abandoned battle. Terminal.
	BattleStatusCancelled BattleStatus = "cancelled"
)

// Battle is a head-to-head voting contest between two distinct posts.
// VotesA and VotesB are caches of the vote ledger, maintained with atomic
// increments; Winner, once set, never changes. Battles are a historical
// record and are never deleted.
type Battle struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	PostAID      uint         `gorm:"not null;index" json:"post_a_id"`
	PostA        Post         `gorm:"foreignKey:PostAID" json:"post_a"`
	PostBID      uint         `gorm:"not null;index" json:"post_b_id"`
	PostB        Post         `gorm:"foreignKey:PostBID" json:"post_b"`
	Category     string       `gorm:"size:50" json:"category"`
	Status       BattleStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Round        int          `gorm:"not null;default:1" json:"round"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
	VotesA       int          `gorm:"not null;default:0" json:"votes_a"`
	VotesB       int          `gorm:"not null;default:0" json:"votes_b"`
	WinnerPostID *uint        `json:"winner_post_id,omitempty"`
	WinnerPost   *Post        `gorm:"foreignKey:WinnerPostID" json:"winner_post,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasPost reports whether the given post is one of the battle's two contenders.
func (b *Battle) HasPost(postID uint) bool {
	return postID == b.PostAID || postID == b.PostBID
}

// OpponentOf returns the other contender's post ID. The caller must have
// verified HasPost first.
func (b *Battle) OpponentOf(postID uint) uint {
	if postID == b.PostAID {
		return b.PostBID
	}
	return b.PostAID
}

// Resolvable reports whether the battle may still transition to completed.
func (b *Battle) Resolvable() bool {
	return b.Status == BattleStatusActive || b.Status == BattleStatusVotingClosed
}
