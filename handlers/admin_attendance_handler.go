package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/attendance"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

// งานฝั่ง admin/manager: ดูภาพรวม แก้ย้อนหลัง ลบ และสั่ง auto-clockout
type AdminAttendanceHandler struct {
	Tracker *attendance.Tracker
}

func NewAdminAttendanceHandler(trk *attendance.Tracker) *AdminAttendanceHandler {
	return &AdminAttendanceHandler{Tracker: trk}
}

func preloadBreaks(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }

// GET /admin/attendance?userId=&start=YYYY-MM-DD&end=YYYY-MM-DD&source=&page=&size=
func (h *AdminAttendanceHandler) List(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("userId"))
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	source := strings.TrimSpace(c.QueryParam("source"))
	page, size := pageSize(c)

	tx := database.DB.Model(&models.Attendance{}).Preload("Breaks", preloadBreaks)

	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if from := parseDateOr(start); from != nil {
		tx = tx.Where("clock_in >= ?", *from)
	}
	if to := parseDateOr(end); to != nil {
		tx = tx.Where("clock_in < ?", to.AddDate(0, 0, 1))
	}
	if source != "" {
		tx = tx.Where("source = ?", source)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}

	var rows []models.Attendance
	if err := tx.Order("clock_in DESC").Limit(size).Offset((page - 1) * size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  rows,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

/* ---------- manual entry ---------- */

type breakPayload struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"omitempty,datetime=15:04"`
}

type manualEntryPayload struct {
	UserID   uint           `json:"user_id" validate:"required"`
	Date     string         `json:"date" validate:"required,datetime=2006-01-02"`
	ClockIn  string         `json:"clock_in" validate:"required,datetime=15:04"`
	ClockOut string         `json:"clock_out" validate:"omitempty,datetime=15:04"`
	Breaks   []breakPayload `json:"breaks" validate:"omitempty,dive"`
	Notes    string         `json:"notes"`
}

// รวม "YYYY-MM-DD" + "HH:MM" เป็น timestamp ในเขตเวลาของเครื่องรัน
func combineDayTime(date, hhmm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
}

// POST /admin/attendance/manual
func (h *AdminAttendanceHandler) ManualEntry(c echo.Context) error {
	adminID, _ := currentUser(c)

	var p manualEntryPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	in := attendance.ManualEntryInput{UserID: p.UserID, Notes: strings.TrimSpace(p.Notes)}

	clockIn, err := combineDayTime(p.Date, p.ClockIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CLOCK_IN"})
	}
	in.ClockIn = clockIn

	if p.ClockOut != "" {
		clockOut, err := combineDayTime(p.Date, p.ClockOut)
		if err != nil || clockOut.Before(clockIn) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CLOCK_OUT"})
		}
		in.ClockOut = &clockOut
	}

	for _, b := range p.Breaks {
		st, err := combineDayTime(p.Date, b.Start)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_BREAK"})
		}
		bi := attendance.BreakInput{Start: st}
		if b.End != "" {
			en, err := combineDayTime(p.Date, b.End)
			if err != nil || en.Before(st) {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_BREAK"})
			}
			bi.End = &en
		}
		in.Breaks = append(in.Breaks, bi)
	}

	rec, err := h.Tracker.ManualEntry(c.Request().Context(), adminID, in)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

/* ---------- update / delete ---------- */

type breakRangePayload struct {
	Start string `json:"start" validate:"required"` // RFC3339
	End   string `json:"end" validate:"omitempty"`
}

type attendanceUpdatePayload struct {
	ClockIn  *string              `json:"clock_in"`  // RFC3339
	ClockOut *string              `json:"clock_out"` // RFC3339
	Notes    *string              `json:"notes"`
	Breaks   *[]breakRangePayload `json:"breaks"` // แทนที่ทั้ง list
}

// PATCH /admin/attendance/:id
// แก้เฉพาะฟิลด์ที่ส่งมา — ไม่เช็คว่า break อยู่ในช่วง session (นโยบาย advisory)
func (h *AdminAttendanceHandler) Update(c echo.Context) error {
	adminID, _ := currentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}

	var p attendanceUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	var upd attendance.SessionUpdate
	if p.ClockIn != nil {
		t, err := time.Parse(time.RFC3339, *p.ClockIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CLOCK_IN"})
		}
		upd.ClockIn = &t
	}
	if p.ClockOut != nil {
		t, err := time.Parse(time.RFC3339, *p.ClockOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CLOCK_OUT"})
		}
		upd.ClockOut = &t
	}
	if p.Notes != nil {
		upd.Notes = p.Notes
	}
	if p.Breaks != nil {
		brs := make([]attendance.BreakInput, 0, len(*p.Breaks))
		for _, b := range *p.Breaks {
			st, err := time.Parse(time.RFC3339, b.Start)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_BREAK"})
			}
			bi := attendance.BreakInput{Start: st}
			if b.End != "" {
				en, err := time.Parse(time.RFC3339, b.End)
				if err != nil {
					return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_BREAK"})
				}
				bi.End = &en
			}
			brs = append(brs, bi)
		}
		upd.Breaks = &brs
	}

	rec, err := h.Tracker.AdminUpdate(c.Request().Context(), adminID, id, upd)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /admin/attendance/:id — ลบจริง ไม่มี soft delete
func (h *AdminAttendanceHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if err := h.Tracker.AdminDelete(c.Request().Context(), id); err != nil {
		return trackerError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

/* ---------- auto clock-out ---------- */

type autoClockoutPayload struct {
	UserID uint   `json:"user_id"` // 0 = ทั้งระบบ
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /admin/attendance/auto-clockout
// สั่งเก็บ session ที่เปิดค้าง — รายคน (ส่ง user_id+date) หรือทั้งระบบ
// (ตัวเดียวกับที่ cron เรียกผ่าน scripts/auto_clockout)
func (h *AdminAttendanceHandler) AutoClockout(c echo.Context) error {
	var p autoClockoutPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	ctx := c.Request().Context()
	if p.UserID > 0 {
		day := time.Now()
		if d := parseDateOr(p.Date); d != nil {
			day = *d
		}
		fixed, err := h.Tracker.ReconcileUser(ctx, p.UserID, day)
		if err != nil {
			return trackerError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"fixed": fixed})
	}

	// ทั้งระบบ: เก็บทุก session ที่เปิดก่อนเที่ยงคืนวันนี้
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	fixed, err := h.Tracker.ReconcileStuck(ctx, cutoff)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"fixed": fixed})
}
