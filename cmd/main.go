package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/attendance"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/routes"
)

func main() {
	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	database.Connect(cfg)

	trk := attendance.NewTracker(
		attendance.NewGormRepository(database.DB),
		attendance.NewGormDirectory(database.DB),
		nil,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, trk)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
