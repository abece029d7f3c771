package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

// Repository คือ storage ของ attendance session
// ทุก query ที่คืนหลายแถวต้องเรียง clock_in DESC (แถวแรก = ล่าสุด)
type Repository interface {
	Create(ctx context.Context, s *models.Attendance) error

	// session ที่ clock_out IS NULL ของ user คนเดียว
	OpenSessions(ctx context.Context, userID uint) ([]models.Attendance, error)

	// session ของ user ในช่วง [from, to] (นับจาก clock_in, ขอบเขตรวมปลายทั้งสอง)
	// from/to เป็น nil = ไม่จำกัดช่วง
	SessionsForUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error)

	ByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)

	// บันทึกทับทั้ง record (รวม breaks) แบบ optimistic:
	// ถ้า version ใน store ไม่ตรง expected ให้คืน ErrConflict และสำเร็จแล้วต้อง bump s.Version
	Save(ctx context.Context, s *models.Attendance, expected uint) error

	Delete(ctx context.Context, id uuid.UUID) error

	// session ค้างจากวันก่อน ๆ: clock_out IS NULL และ clock_in < cutoff
	OpenBefore(ctx context.Context, cutoff time.Time) ([]models.Attendance, error)
}

// Directory ตอบว่า user มีอยู่จริง (และยัง active) หรือไม่ พร้อมชื่อสำหรับแสดงผล
type Directory interface {
	Lookup(ctx context.Context, userID uint) (name string, ok bool, err error)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
