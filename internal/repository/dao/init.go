package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Camper{},
		&CamperParentLink{},
		&EmergencyContact{},
		&CamperContactLink{},
		&Registration{},
		&CampDate{},
		&BlockedSession{},
		&GymRental{},
		&Message{},
		&ChangeEntry{},
	)
}
