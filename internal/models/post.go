package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus defines the lifecycle state of a post.
type PostStatus string

const (
	// PostStatusDraft indicates a post is not publicly visible yet.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished indicates a post is live and eligible for battles.
	PostStatusPublished PostStatus = "published"
	// PostStatusInBattle indicates a post is locked into an active battle.
	PostStatusInBattle PostStatus = "in_battle"
	// PostStatusArchived indicates a post was retired by its author.
	PostStatusArchived PostStatus = "archived"
)

// Post represents a short written piece. Status, BattleWins and
// CurrentBattleID are owned by the battle engine; content fields are owned
// by the author. A post is referenced by at most one active battle at a
// time, tracked through CurrentBattleID while Status is in_battle.
type Post struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:100;not null" json:"title"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	Excerpt         string         `gorm:"size:250;not null" json:"excerpt"`
	Category        string         `gorm:"size:50;not null;index" json:"category"`
	ImageURL        string         `json:"image_url"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user"`
	Status          PostStatus     `gorm:"type:varchar(20);not null;default:'published';index" json:"status"`
	BattleWins      int            `gorm:"not null;default:0" json:"battle_wins"`
	CurrentBattleID *uint          `json:"current_battle_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Editable reports whether the author may change content or status fields.
// In-battle posts are frozen until their battle resolves.
func (p *Post) Editable() bool {
	return p.Status != PostStatusInBattle
}
