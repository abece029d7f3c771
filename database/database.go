package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	// ----- AutoMigrate โครงสร้างทั้งหมดของเรา -----
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Attendance{},
		&models.AttendanceBreak{},
		&models.Shift{},
		&models.ShiftAssignment{},
		&models.TimeOffRequest{},
		&models.ShiftSwap{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
