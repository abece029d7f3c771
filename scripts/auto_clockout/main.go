package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/attendance"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
)

// ปิด session ค้างจากวันก่อน ๆ — รันเป็น cron ตอนเที่ยงคืนหรือเรียกมือ
// -user และ -date ใช้กับการแก้รายคน/รายวัน
func main() {
	userID := flag.Uint("user", 0, "reconcile a single user id (0 = all stuck sessions)")
	date := flag.String("date", "", "day to reconcile for -user (YYYY-MM-DD, default today)")
	flag.Parse()

	cfg := config.Load()
	database.Connect(cfg)

	trk := attendance.NewTracker(
		attendance.NewGormRepository(database.DB),
		attendance.NewGormDirectory(database.DB),
		nil,
	)

	ctx := context.Background()
	var (
		n   int
		err error
	)
	if *userID > 0 {
		day := time.Now()
		if *date != "" {
			day, err = time.ParseInLocation("2006-01-02", *date, time.Local)
			if err != nil {
				log.Fatalf("invalid -date: %v", err)
			}
		}
		n, err = trk.ReconcileUser(ctx, uint(*userID), day)
	} else {
		now := time.Now()
		cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		n, err = trk.ReconcileStuck(ctx, cutoff)
	}
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	log.Printf("auto clock-out done: closed %d session(s)", n)
}
