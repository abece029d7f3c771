package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "", "initial password (required)")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: create_admin -password <password> [-username admin] [-email ...]")
	}

	// โหลด config และเชื่อม DB แบบเดียวกับ main.go
	cfg := config.Load()
	database.Connect(cfg)

	// แฮชรหัสผ่าน
	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// ตรวจว่ามีผู้ใช้งานชื่อเดียวกันอยู่หรือไม่
	var existing models.User
	if err := database.DB.Where("username = ? OR email = ?", *username, *email).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("admin user already exists:", existing.Username)
		os.Exit(0)
	}

	u := models.User{
		Username: *username,
		Email:    *email,
		Password: string(hashed),
		Name:     *name,
		Role:     "admin",
		Active:   true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("admin user created:")
	fmt.Println("   username:", *username)
	fmt.Println("   email:   ", *email)
}
