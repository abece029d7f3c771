package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

type ShiftHandler struct{}

func NewShiftHandler() *ShiftHandler { return &ShiftHandler{} }

// ===== Validation rules =====
var (
	shiftReTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`) // HH:MM
	shiftReDays = regexp.MustCompile(`^[1-7](,[1-7])*$`)               // "1,2,3,4,5"
)

type shiftPayload struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Days      string `json:"days"`
}

func validateShift(p *shiftPayload) map[string]string {
	errs := map[string]string{}
	p.Name = strings.TrimSpace(p.Name)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
	p.Days = strings.TrimSpace(p.Days)

	if p.Name == "" {
		errs["name"] = "required"
	}
	if !shiftReTime.MatchString(p.StartTime) {
		errs["start_time"] = "must be HH:MM"
	}
	if !shiftReTime.MatchString(p.EndTime) {
		errs["end_time"] = "must be HH:MM"
	}
	if p.Days != "" && !shiftReDays.MatchString(p.Days) {
		errs["days"] = "must be comma-separated 1-7"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /admin/shifts
func (h *ShiftHandler) List(c echo.Context) error {
	var rows []models.Shift
	if err := database.DB.Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/shifts
func (h *ShiftHandler) Create(c echo.Context) error {
	var p shiftPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if errs := validateShift(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}
	s := models.Shift{Name: p.Name, StartTime: p.StartTime, EndTime: p.EndTime, Days: p.Days}
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/shifts/:id
func (h *ShiftHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var existing models.Shift
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	var p shiftPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if errs := validateShift(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}
	existing.Name = p.Name
	existing.StartTime = p.StartTime
	existing.EndTime = p.EndTime
	existing.Days = p.Days
	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /admin/shifts/:id
func (h *ShiftHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	// ห้ามลบกะที่ยังมีการมอบหมายอยู่
	var n int64
	if err := database.DB.Model(&models.ShiftAssignment{}).Where("shift_id = ?", id).Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "SHIFT_IN_USE"})
	}
	if err := database.DB.Delete(&models.Shift{}, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

/* ===== Assignments ===== */

type assignmentPayload struct {
	UserID   uint   `json:"user_id" validate:"required"`
	ShiftID  uint   `json:"shift_id" validate:"required"`
	DateFrom string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"required,datetime=2006-01-02"`
}

// GET /admin/shift-assignments?userId=&from=&to=
// GET /shifts/mine ใช้ตัวเดียวกันโดย fix userId = ตัวเอง
func (h *ShiftHandler) ListAssignments(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("userId"))
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))

	tx := database.DB.Model(&models.ShiftAssignment{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if from != "" && to != "" {
		tx = tx.Where("date_from <= ? AND date_to >= ?", to, from)
	}
	var rows []models.ShiftAssignment
	if err := tx.Order("date_from ASC, id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /shifts/mine?from=&to= — ตารางเวรของพนักงานที่ login อยู่
func (h *ShiftHandler) MyAssignments(c echo.Context) error {
	uid, _ := currentUser(c)
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))

	tx := database.DB.Model(&models.ShiftAssignment{}).Where("user_id = ?", uid)
	if from != "" && to != "" {
		tx = tx.Where("date_from <= ? AND date_to >= ?", to, from)
	}
	var rows []models.ShiftAssignment
	if err := tx.Order("date_from ASC, id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/shift-assignments
func (h *ShiftHandler) Assign(c echo.Context) error {
	var p assignmentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	if p.DateTo < p.DateFrom {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE_RANGE"})
	}

	// user กับ shift ต้องมีจริง
	var u models.User
	if err := database.DB.First(&u, "id = ?", p.UserID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	var s models.Shift
	if err := database.DB.First(&s, "id = ?", p.ShiftID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SHIFT_NOT_FOUND"})
	}

	rec := models.ShiftAssignment{UserID: p.UserID, ShiftID: p.ShiftID, DateFrom: p.DateFrom, DateTo: p.DateTo}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// DELETE /admin/shift-assignments/:id
func (h *ShiftHandler) Unassign(c echo.Context) error {
	id := c.Param("id")
	res := database.DB.Delete(&models.ShiftAssignment{}, "id = ?", id)
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
