package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /admin/dashboard/live
// สรุปภาพรวม "ตอนนี้": ใครกำลังทำงาน ใครพักอยู่ ใครยังไม่เข้า
// { counts: { active, clocked_in, on_break, off }, rows: [...] }
func (h *DashboardHandler) Live(c echo.Context) error {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var users []models.User
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	// session ที่ยังเปิดของวันนี้ พร้อม break ล่าสุด
	var open []models.Attendance
	if err := database.DB.Preload("Breaks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("start_time ASC")
	}).Where("clock_out IS NULL AND clock_in >= ?", dayStart).Find(&open).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	openByUser := map[uint]*models.Attendance{}
	for i := range open {
		openByUser[open[i].UserID] = &open[i]
	}

	type row struct {
		UserID     uint       `json:"user_id"`
		Name       string     `json:"name"`
		Department string     `json:"department"`
		State      string     `json:"state"` // clocked_in | on_break | off
		ClockIn    *time.Time `json:"clock_in,omitempty"`
		BreakStart *time.Time `json:"break_start,omitempty"`
	}

	var clockedIn, onBreak, off int
	rows := make([]row, 0, len(users))
	for _, u := range users {
		r := row{UserID: u.ID, Name: u.Name, Department: u.Department, State: "off"}
		if s, ok := openByUser[u.ID]; ok {
			r.ClockIn = &s.ClockIn
			if b := s.OpenBreak(); b != nil {
				r.State = "on_break"
				r.BreakStart = &b.StartTime
				onBreak++
			} else {
				r.State = "clocked_in"
				clockedIn++
			}
		} else {
			off++
		}
		rows = append(rows, r)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"counts": map[string]any{
			"active":     len(users),
			"clocked_in": clockedIn,
			"on_break":   onBreak,
			"off":        off,
		},
		"rows": rows,
	})
}

// GET /admin/dashboard/summary
// ตัวเลขคร่าว ๆ สำหรับการ์ดบนหน้าแดชบอร์ด
func (h *DashboardHandler) Summary(c echo.Context) error {
	var (
		cntEmployees    int64
		cntShifts       int64
		cntPendingLeave int64
		cntPendingSwap  int64
	)

	database.DB.Model(&models.User{}).Where("active = ?", true).Count(&cntEmployees)
	database.DB.Model(&models.Shift{}).Count(&cntShifts)
	database.DB.Model(&models.TimeOffRequest{}).Where("status = ?", models.TimeOffPending).Count(&cntPendingLeave)
	database.DB.Model(&models.ShiftSwap{}).Where("status IN ?", []string{models.SwapPending, models.SwapAccepted}).Count(&cntPendingSwap)

	return c.JSON(http.StatusOK, map[string]any{
		"employees":        cntEmployees,
		"shifts":           cntShifts,
		"pending_time_off": cntPendingLeave,
		"pending_swaps":    cntPendingSwap,
	})
}
