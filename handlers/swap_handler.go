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

type SwapHandler struct{}

func NewSwapHandler() *SwapHandler { return &SwapHandler{} }

type swapCreateReq struct {
	TargetID           uint   `json:"target_id" validate:"required"`
	AssignmentID       uint   `json:"assignment_id" validate:"required"`
	TargetAssignmentID *uint  `json:"target_assignment_id"`
	Reason             string `json:"reason"`
}

// POST /swaps — พนักงานขอแลกเวรกับเพื่อนร่วมงาน
func (h *SwapHandler) Create(c echo.Context) error {
	uid, _ := currentUser(c)

	var req swapCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	if req.TargetID == uid {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "CANNOT_SWAP_WITH_SELF"})
	}

	// assignment ที่ขอแลกต้องเป็นของผู้ขอเอง
	var own models.ShiftAssignment
	if err := database.DB.First(&own, "id = ?", req.AssignmentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "ASSIGNMENT_NOT_FOUND"})
	}
	if own.UserID != uid {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "NOT_YOUR_ASSIGNMENT"})
	}
	if req.TargetAssignmentID != nil {
		var theirs models.ShiftAssignment
		if err := database.DB.First(&theirs, "id = ?", *req.TargetAssignmentID).Error; err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "ASSIGNMENT_NOT_FOUND"})
		}
		if theirs.UserID != req.TargetID {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "ASSIGNMENT_USER_MISMATCH"})
		}
	}

	rec := models.ShiftSwap{
		RequesterID:        uid,
		TargetID:           req.TargetID,
		AssignmentID:       req.AssignmentID,
		TargetAssignmentID: req.TargetAssignmentID,
		Reason:             strings.TrimSpace(req.Reason),
		Status:             models.SwapPending,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /swaps/mine — คำขอที่เราเป็นผู้ขอหรือเป็นเป้าหมาย
func (h *SwapHandler) ListMine(c echo.Context) error {
	uid, _ := currentUser(c)
	status := strings.TrimSpace(c.QueryParam("status"))

	tx := database.DB.Model(&models.ShiftSwap{}).
		Where("requester_id = ? OR target_id = ?", uid, uid)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rows []models.ShiftSwap
	if err := tx.Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /swaps/:id/cancel — ผู้ขอยกเลิกก่อนมีการตัดสิน
func (h *SwapHandler) Cancel(c echo.Context) error {
	uid, _ := currentUser(c)
	var rec models.ShiftSwap
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if rec.RequesterID != uid {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	if rec.Status != models.SwapPending && rec.Status != models.SwapAccepted {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	rec.Status = models.SwapCanceled
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

// POST /swaps/:id/accept — เป้าหมายตอบรับ รอแอดมินอนุมัติต่อ
func (h *SwapHandler) Accept(c echo.Context) error {
	return h.respond(c, models.SwapAccepted)
}

// POST /swaps/:id/decline
func (h *SwapHandler) Decline(c echo.Context) error {
	return h.respond(c, models.SwapDeclined)
}

func (h *SwapHandler) respond(c echo.Context, status string) error {
	uid, _ := currentUser(c)
	var rec models.ShiftSwap
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if rec.TargetID != uid {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	if rec.Status != models.SwapPending {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	rec.Status = status
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

/* ===== Admin ===== */

// GET /admin/swaps?status=&page=&size=
func (h *SwapHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	page, size := pageSize(c)

	tx := database.DB.Model(&models.ShiftSwap{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	var rows []models.ShiftSwap
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"page": page, "size": size, "total": total, "data": rows})
}

// POST /admin/swaps/:id/approve — สลับผู้รับเวรจริงในตาราง assignment
func (h *SwapHandler) Approve(c echo.Context) error {
	uid, _ := currentUser(c)
	var rec models.ShiftSwap
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if rec.Status != models.SwapAccepted {
		return c.JSON(http.StatusConflict, map[string]any{"error": "NOT_ACCEPTED_YET"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var own models.ShiftAssignment
		if err := tx.First(&own, "id = ?", rec.AssignmentID).Error; err != nil {
			return err
		}
		own.UserID = rec.TargetID
		if err := tx.Save(&own).Error; err != nil {
			return err
		}
		if rec.TargetAssignmentID != nil {
			var theirs models.ShiftAssignment
			if err := tx.First(&theirs, "id = ?", *rec.TargetAssignmentID).Error; err != nil {
				return err
			}
			theirs.UserID = rec.RequesterID
			if err := tx.Save(&theirs).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		rec.Status = models.SwapApproved
		rec.DecidedBy = &uid
		rec.DecidedAt = &now
		return tx.Save(&rec).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "SWAP_APPLY_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

// POST /admin/swaps/:id/reject
func (h *SwapHandler) Reject(c echo.Context) error {
	uid, _ := currentUser(c)
	var rec models.ShiftSwap
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if rec.Status != models.SwapPending && rec.Status != models.SwapAccepted {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	now := time.Now()
	rec.Status = models.SwapRejected
	rec.DecidedBy = &uid
	rec.DecidedAt = &now
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}
