// Package service contains the application's business logic layer.
package service

import (
	"kalemmeydani/internal/models"

	"gorm.io/gorm"
)

// bumpAuthorCounters adjusts an author's derived counters and recomputes the
// level from the updated values, persisting both through the same handle.
// Callers inside a battle transaction pass the tx so the whole cascade commits
// or rolls back as one unit; post CRUD passes the plain db after its own
// write has committed.
func bumpAuthorCounters(db *gorm.DB, userID uint, postsDelta, winsDelta int) error {
	updates := map[string]interface{}{}
	if postsDelta != 0 {
		updates["posts_count"] = gorm.Expr("posts_count + ?", postsDelta)
	}
	if winsDelta != 0 {
		updates["battle_wins_count"] = gorm.Expr("battle_wins_count + ?", winsDelta)
	}
	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(updates).Error; err != nil {
			return models.NewInternalError(err)
		}
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return models.NewInternalError(err)
	}
	level := models.LevelForCounts(user.PostsCount, user.BattleWinsCount)
	if level != user.Level {
		if err := db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("level", level).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}
