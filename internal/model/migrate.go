package model

import "gorm.io/gorm"

func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Note{},
		&NoteActivity{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
