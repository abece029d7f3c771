package handlers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validator ตัวเดียวใช้ร่วมกันทุก handler (struct tag `validate:"..."`)
var validate = validator.New()

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// อ่าน page/size จาก query พร้อม clamp ช่วงที่ยอมรับ
func pageSize(c echo.Context) (page, size int) {
	page = atoiOr(c.QueryParam("page"), 1)
	size = atoiOr(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// helper สำหรับอ่าน user_id/role จาก context ที่ JWT middleware แนบไว้
func currentUser(c echo.Context) (uid uint, role string) {
	roleAny := c.Get("role")
	role, _ = roleAny.(string)
	idAny := c.Get("user_id")
	switch v := idAny.(type) {
	case uint:
		uid = v
	case int:
		uid = uint(v)
	default:
		uid = 0
	}
	return
}

// parse YYYY-MM-DD; คืน nil ถ้าว่าง
func parseDateOr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
