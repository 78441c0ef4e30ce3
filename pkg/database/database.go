package database

import (
	"fmt"
	"log"

	"quizgenie_backend/internal/config"
	"quizgenie_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Quiz{},
		&model.QuizAttempt{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedTags(db)

	return db, nil
}

// seedTags inserts a starter set of discovery tags so the tag filter is not
// empty on a fresh install. Generation adds to this set organically.
func seedTags(db *gorm.DB) {
	var count int64
	db.Model(&model.Tag{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []model.Tag{
		{Name: "science", Category: "academic"},
		{Name: "history", Category: "academic"},
		{Name: "technology", Category: "academic"},
		{Name: "literature", Category: "academic"},
		{Name: "general knowledge", Category: "casual"},
	}
	for _, t := range defaults {
		db.Create(&t)
	}
}
