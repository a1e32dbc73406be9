package models

import "time"

// Vote is one ledger entry: a voter's single choice in a battle. The
// composite unique index on (battle_id, voter_id) is the source of the
// one-vote-per-user guarantee; rows are append-only and never updated or
// deleted.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BattleID  uint      `gorm:"not null;uniqueIndex:idx_votes_battle_voter" json:"battle_id"`
	VoterID   uint      `gorm:"not null;uniqueIndex:idx_votes_battle_voter" json:"voter_id"`
	PostID    uint      `gorm:"not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
