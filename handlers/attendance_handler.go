package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/attendance"
)

// endpoint ฝั่งพนักงาน — ทุกอันอ่าน user_id จาก JWT แล้วส่งต่อให้ Tracker
type AttendanceHandler struct {
	Tracker *attendance.Tracker
}

func NewAttendanceHandler(trk *attendance.Tracker) *AttendanceHandler {
	return &AttendanceHandler{Tracker: trk}
}

// map error จาก Tracker เป็น HTTP response
// business-rule error = 4xx, พังที่ storage = 500
func trackerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, attendance.ErrNoActiveSession):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NO_ACTIVE_SESSION"})
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_ON_BREAK"})
	case errors.Is(err, attendance.ErrNotOnBreak):
		return c.JSON(http.StatusConflict, map[string]any{"error": "NOT_ON_BREAK"})
	case errors.Is(err, attendance.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	case errors.Is(err, attendance.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SESSION_NOT_FOUND"})
	case errors.Is(err, attendance.ErrConflict):
		// retry รอบเดียวใน Tracker แล้วยังชน — ให้ client ลองใหม่
		return c.JSON(http.StatusConflict, map[string]any{"error": "CONCURRENT_UPDATE"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
}

// POST /attendance/clock-in
func (h *AttendanceHandler) ClockIn(c echo.Context) error {
	uid, _ := currentUser(c)
	rec, err := h.Tracker.ClockIn(c.Request().Context(), uid)
	if err != nil {
		return trackerError(c, err)
	}
	// แนบชื่อจาก claims ให้ FE ใช้แสดงผลได้เลย
	name, _ := c.Get("name").(string)
	return c.JSON(http.StatusCreated, map[string]any{
		"attendance": rec,
		"user":       map[string]any{"id": uid, "name": name},
	})
}

// POST /attendance/clock-out
func (h *AttendanceHandler) ClockOut(c echo.Context) error {
	uid, _ := currentUser(c)
	rec, err := h.Tracker.ClockOut(c.Request().Context(), uid)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"attendance":         rec,
		"total_work_hours":   rec.TotalWorkHours(),
		"total_break_minutes": rec.TotalBreakMinutes(),
	})
}

// POST /attendance/break/start
func (h *AttendanceHandler) StartBreak(c echo.Context) error {
	uid, _ := currentUser(c)
	rec, err := h.Tracker.StartBreak(c.Request().Context(), uid)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// POST /attendance/break/end
func (h *AttendanceHandler) EndBreak(c echo.Context) error {
	uid, _ := currentUser(c)
	rec, err := h.Tracker.EndBreak(c.Request().Context(), uid)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// GET /attendance/status
func (h *AttendanceHandler) Status(c echo.Context) error {
	uid, _ := currentUser(c)
	snap, err := h.Tracker.Status(c.Request().Context(), uid)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// GET /attendance/history?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *AttendanceHandler) History(c echo.Context) error {
	uid, _ := currentUser(c)
	from := parseDateOr(strings.TrimSpace(c.QueryParam("start")))
	to := parseDateOr(strings.TrimSpace(c.QueryParam("end")))

	rows, err := h.Tracker.History(c.Request().Context(), uid, from, to)
	if err != nil {
		return trackerError(c, err)
	}

	// สรุปยอดรวมท้ายตารางให้ FE
	var hours, breakMin float64
	for i := range rows {
		hours += rows[i].TotalWorkHours()
		breakMin += rows[i].TotalBreakMinutes()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":                rows,
		"total_work_hours":    hours,
		"total_break_minutes": breakMin,
	})
}
