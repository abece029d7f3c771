package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/database"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

type EmployeeHandler struct{}

func NewEmployeeHandler() *EmployeeHandler { return &EmployeeHandler{} }

type employeePayload struct {
	Username   string `json:"username" validate:"required,alphanum,min=3,max=60"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"omitempty,min=8"` // บังคับเฉพาะตอนสร้าง
	Role       string `json:"role" validate:"required,oneof=admin manager employee"`
	Name       string `json:"name" validate:"required,max=120"`
	Department string `json:"department" validate:"max=60"`
	Position   string `json:"position" validate:"max=60"`
	Active     *bool  `json:"active"`
}

func (p *employeePayload) normalize() {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Department = strings.TrimSpace(p.Department)
	p.Position = strings.TrimSpace(p.Position)
}

// GET /admin/employees?q=&role=&active=&page=&size=
func (h *EmployeeHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	role := strings.TrimSpace(c.QueryParam("role"))
	active := strings.TrimSpace(c.QueryParam("active"))
	page, size := pageSize(c)

	tx := database.DB.Model(&models.User{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("username ILIKE ? OR name ILIKE ? OR email ILIKE ? OR department ILIKE ?", like, like, like, like)
	}
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	if active == "true" || active == "false" {
		tx = tx.Where("active = ?", active == "true")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	var items []models.User
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GET /admin/employees/:id
func (h *EmployeeHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var u models.User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, u)
}

// POST /admin/employees
func (h *EmployeeHandler) Create(c echo.Context) error {
	var p employeePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	if strings.TrimSpace(p.Password) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "PASSWORD_REQUIRED"})
	}

	// ตรวจซ้ำ username/email
	var dup models.User
	if err := database.DB.Where("username = ? OR email = ?", p.Username, p.Email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USER_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	u := models.User{
		Username: p.Username, Email: p.Email, Password: string(hash),
		Role: p.Role, Name: p.Name, Department: p.Department, Position: p.Position,
		Active: true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /admin/employees/:id
func (h *EmployeeHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var existing models.User
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var p employeePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	existing.Username = p.Username
	existing.Email = p.Email
	existing.Role = p.Role
	existing.Name = p.Name
	existing.Department = p.Department
	existing.Position = p.Position
	if p.Active != nil {
		existing.Active = *p.Active
	}
	if strings.TrimSpace(p.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
		}
		existing.Password = string(hash)
	}

	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /admin/employees/:id
// คนที่มีประวัติ attendance แล้วห้ามลบจริง — ปิด active แทน (เก็บประวัติไว้ทำรายงาน)
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	var u models.User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var n int64
	if err := database.DB.Model(&models.Attendance{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	if n > 0 {
		if err := database.DB.Model(&u).Update("active", false).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
		}
		return c.JSON(http.StatusOK, map[string]any{"deactivated": true})
	}

	if err := database.DB.Delete(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
