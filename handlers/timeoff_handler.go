package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

type TimeOffHandler struct{}

func NewTimeOffHandler() *TimeOffHandler { return &TimeOffHandler{} }

type timeOffCreateReq struct {
	Type     string `json:"type" validate:"required,oneof=vacation sick personal other"`
	Reason   string `json:"reason" validate:"max=2000"`
	DateFrom string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"required,datetime=2006-01-02"`
}

// POST /timeoff — พนักงานยื่นคำขอลาของตัวเอง
func (h *TimeOffHandler) Create(c echo.Context) error {
	uid, _ := currentUser(c)

	var req timeOffCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	if req.DateTo < req.DateFrom {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE_RANGE"})
	}

	rec := models.TimeOffRequest{
		UserID:   uid,
		Type:     req.Type,
		Reason:   req.Reason,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Status:   models.TimeOffPending,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /timeoff — รายการของตัวเอง (มี ?status= ได้)
func (h *TimeOffHandler) ListMine(c echo.Context) error {
	uid, _ := currentUser(c)
	status := strings.TrimSpace(c.QueryParam("status"))

	tx := database.DB.Model(&models.TimeOffRequest{}).Where("user_id = ?", uid)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rows []models.TimeOffRequest
	if err := tx.Order("submitted_at DESC, id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /timeoff/:id/cancel — ยกเลิกได้เฉพาะของตัวเองที่ยัง pending
func (h *TimeOffHandler) Cancel(c echo.Context) error {
	uid, _ := currentUser(c)
	id := c.Param("id")

	var row models.TimeOffRequest
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if row.UserID != uid {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	if row.Status != models.TimeOffPending {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	if err := database.DB.Model(&row).Update("status", models.TimeOffCanceled).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// GET /admin/timeoff?status=&type=&userId=&from=&to=&q=&page=&size=
func (h *TimeOffHandler) List(c echo.Context) error {
	var rows []models.TimeOffRequest

	// filters
	status := strings.TrimSpace(c.QueryParam("status"))
	typ := strings.TrimSpace(c.QueryParam("type"))
	userID := strings.TrimSpace(c.QueryParam("userId"))
	from := strings.TrimSpace(c.QueryParam("from")) // YYYY-MM-DD
	to := strings.TrimSpace(c.QueryParam("to"))     // YYYY-MM-DD
	q := strings.TrimSpace(c.QueryParam("q"))       // คีย์เวิร์ดใน reason

	page, size := pageSize(c)

	tx := database.DB.Model(&models.TimeOffRequest{})

	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if from != "" && to != "" {
		// ทับซ้อนช่วง (overlap): (DateFrom <= to) AND (DateTo >= from)
		tx = tx.Where("date_from <= ? AND date_to >= ?", to, from)
	}
	if q != "" {
		tx = tx.Where("reason ILIKE ?", "%"+q+"%")
	}

	// เรียงล่าสุดก่อน
	offset := (page - 1) * size
	if err := tx.Order("submitted_at DESC, id DESC").Offset(offset).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/timeoff/pending-count
func (h *TimeOffHandler) PendingCount(c echo.Context) error {
	var n int64
	if err := database.DB.Model(&models.TimeOffRequest{}).
		Where("status = ?", models.TimeOffPending).Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}

type timeOffDecideReq struct {
	Status       string `json:"status"`
	RejectReason string `json:"rejectReason"` // ถ้า rejected ต้องมี
}

// POST /admin/timeoff/:id/approve
func (h *TimeOffHandler) Approve(c echo.Context) error {
	return h.decide(c, c.Param("id"), timeOffDecideReq{Status: models.TimeOffApproved})
}

// POST /admin/timeoff/:id/reject
func (h *TimeOffHandler) Reject(c echo.Context) error {
	var body timeOffDecideReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	body.Status = models.TimeOffRejected
	return h.decide(c, c.Param("id"), body)
}

func (h *TimeOffHandler) decide(c echo.Context, id string, body timeOffDecideReq) error {
	var row models.TimeOffRequest
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if row.Status != models.TimeOffPending {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	if body.Status == models.TimeOffRejected && strings.TrimSpace(body.RejectReason) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "REJECT_REASON_REQUIRED"})
	}

	now := time.Now()
	updates := map[string]any{
		"status":     body.Status,
		"decided_at": &now,
	}
	if uid, _ := currentUser(c); uid > 0 {
		updates["decided_by"] = uid
	}
	if body.Status == models.TimeOffRejected {
		updates["reject_reason"] = strings.TrimSpace(body.RejectReason)
	} else {
		updates["reject_reason"] = ""
	}

	if err := database.DB.Model(&models.TimeOffRequest{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
