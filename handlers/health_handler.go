package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
)

// Health ใช้สำหรับ /health — เช็กทั้ง process และการเชื่อมต่อ DB
func Health(c echo.Context) error {
	dbStatus := "ok"
	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}
	code := http.StatusOK
	if dbStatus != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]string{
		"status":   "ok",
		"database": dbStatus,
	})
}
