package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler { return &ReportHandler{} }

type reportRow struct {
	UserID            uint    `json:"user_id"`
	Name              string  `json:"name"`
	Department        string  `json:"department"`
	DaysPresent       int     `json:"days_present"`
	TotalWorkHours    float64 `json:"total_work_hours"`
	TotalBreakMinutes float64 `json:"total_break_minutes"`
	AutoClockOuts     int     `json:"auto_clockouts"`
	ManualEntries     int     `json:"manual_entries"`
	OpenSessions      int     `json:"open_sessions"`
}

// GET /admin/reports/attendance?from=YYYY-MM-DD&to=YYYY-MM-DD&userId=
// รายงานสรุปต่อคนในช่วงวันที่กำหนด (default = 30 วันล่าสุด)
func (h *ReportHandler) Attendance(c echo.Context) error {
	now := time.Now()
	to := parseDateOr(c.QueryParam("to"))
	from := parseDateOr(c.QueryParam("from"))
	if to == nil {
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to = &t
	}
	if from == nil {
		f := to.AddDate(0, 0, -30)
		from = &f
	}
	rangeEnd := to.AddDate(0, 0, 1) // exclusive

	userFilter := atoiOr(c.QueryParam("userId"), 0)

	uq := database.DB.Model(&models.User{})
	if userFilter > 0 {
		uq = uq.Where("id = ?", userFilter)
	}
	var users []models.User
	if err := uq.Order("name ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	sq := database.DB.Preload("Breaks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("start_time ASC")
	}).Where("clock_in >= ? AND clock_in < ?", *from, rangeEnd)
	if userFilter > 0 {
		sq = sq.Where("user_id = ?", userFilter)
	}
	var sessions []models.Attendance
	if err := sq.Order("clock_in ASC").Find(&sessions).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	byUser := map[uint][]models.Attendance{}
	for _, s := range sessions {
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}

	rows := make([]reportRow, 0, len(users))
	for _, u := range users {
		r := reportRow{UserID: u.ID, Name: u.Name, Department: u.Department}
		days := map[string]bool{}
		for _, s := range byUser[u.ID] {
			days[s.ClockIn.Format("2006-01-02")] = true
			r.TotalWorkHours += s.TotalWorkHours()
			r.TotalBreakMinutes += s.TotalBreakMinutes()
			switch s.Source {
			case models.SourceAutoClockOut:
				r.AutoClockOuts++
			case models.SourceManualEntry:
				r.ManualEntries++
			}
			if s.IsOpen() {
				r.OpenSessions++
			}
		}
		r.DaysPresent = len(days)
		r.TotalWorkHours = math.Round(r.TotalWorkHours*100) / 100
		r.TotalBreakMinutes = math.Round(r.TotalBreakMinutes)
		rows = append(rows, r)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
		"rows": rows,
	})
}

// GET /reports/mine?from=&to= — สรุปของตัวเอง (พนักงานเรียกดูได้)
func (h *ReportHandler) Mine(c echo.Context) error {
	uid, _ := currentUser(c)

	now := time.Now()
	to := parseDateOr(c.QueryParam("to"))
	from := parseDateOr(c.QueryParam("from"))
	if to == nil {
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to = &t
	}
	if from == nil {
		f := to.AddDate(0, 0, -30)
		from = &f
	}
	rangeEnd := to.AddDate(0, 0, 1)

	var sessions []models.Attendance
	if err := database.DB.Preload("Breaks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("start_time ASC")
	}).Where("user_id = ? AND clock_in >= ? AND clock_in < ?", uid, *from, rangeEnd).
		Order("clock_in ASC").Find(&sessions).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var workHours, breakMinutes float64
	days := map[string]bool{}
	for _, s := range sessions {
		days[s.ClockIn.Format("2006-01-02")] = true
		workHours += s.TotalWorkHours()
		breakMinutes += s.TotalBreakMinutes()
	}

	return c.JSON(http.StatusOK, map[string]any{
		"from":                from.Format("2006-01-02"),
		"to":                  to.Format("2006-01-02"),
		"days_present":        len(days),
		"total_work_hours":    math.Round(workHours*100) / 100,
		"total_break_minutes": math.Round(breakMinutes),
		"sessions":            len(sessions),
	})
}
