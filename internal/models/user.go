// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserLevel is the derived author tier, recomputed from counters.
type UserLevel string

const (
	// UserLevelNovice is the starting tier for every author.
	UserLevelNovice UserLevel = "novice"
	// UserLevelColumnist requires at least 5 posts and 1 battle win.
	UserLevelColumnist UserLevel = "columnist"
	// UserLevelMaster requires at least 15 posts and 5 battle wins.
	UserLevelMaster UserLevel = "master"
)

const (
	columnistMinPosts = 5
	columnistMinWins  = 1
	masterMinPosts    = 15
	masterMinWins     = 5
)

// User represents an author in Kalem Meydanı. Credentials and profile fields
// live next to the battle-derived counters; Level is never set directly, it
// is recomputed from PostsCount and BattleWinsCount on every counter change.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"unique;not null" json:"username"`
	Email           string         `gorm:"unique;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	Bio             string         `gorm:"size:200" json:"bio"`
	AvatarURL       string         `json:"avatar_url"`
	IsAdmin         bool           `gorm:"default:false" json:"is_admin"`
	PostsCount      int            `gorm:"not null;default:0" json:"posts_count"`
	BattleWinsCount int            `gorm:"not null;default:0" json:"battle_wins_count"`
	Level           UserLevel      `gorm:"type:varchar(20);not null;default:'novice'" json:"level"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Posts           []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// LevelForCounts returns the tier the given counters qualify for.
func LevelForCounts(postsCount, battleWinsCount int) UserLevel {
	switch {
	case postsCount >= masterMinPosts && battleWinsCount >= masterMinWins:
		return UserLevelMaster
	case postsCount >= columnistMinPosts && battleWinsCount >= columnistMinWins:
		return UserLevelColumnist
	default:
		return UserLevelNovice
	}
}
