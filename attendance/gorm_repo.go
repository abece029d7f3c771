package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

// GormRepository เก็บ session ลง Postgres ผ่าน GORM
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

func breakOrder(db *gorm.DB) *gorm.DB {
	// ลำดับ insert สำคัญ — break ตัวสุดท้ายคือตัวปัจจุบัน
	return db.Order("start_time ASC")
}

func (r *GormRepository) Create(ctx context.Context, s *models.Attendance) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormRepository) OpenSessions(ctx context.Context, userID uint) ([]models.Attendance, error) {
	var rows []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Breaks", breakOrder).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Order("clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) SessionsForUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error) {
	tx := r.db.WithContext(ctx).
		Preload("Breaks", breakOrder).
		Where("user_id = ?", userID)
	if from != nil {
		tx = tx.Where("clock_in >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("clock_in <= ?", *to)
	}
	var rows []models.Attendance
	err := tx.Order("clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *GormRepository) ByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	var s models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Breaks", breakOrder).
		First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save เขียนทับทั้ง record แบบ compare-and-set ที่คอลัมน์ version
// ถ้า version ไม่ตรง (มีคนเขียนแทรก) คืน ErrConflict — ผู้เรียกอ่านใหม่แล้วลองอีกรอบ
func (r *GormRepository) Save(ctx context.Context, s *models.Attendance, expected uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Attendance{}).
			Where("id = ? AND version = ?", s.ID, expected).
			Updates(map[string]any{
				"clock_in":    s.ClockIn,
				"clock_out":   s.ClockOut,
				"notes":       s.Notes,
				"source":      s.Source,
				"modified_by": s.ModifiedBy,
				"version":     expected + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		// breaks เขียนแบบแทนที่ทั้งชุด (list เล็กมาก — ไม่คุ้มทำ diff)
		if err := tx.Where("attendance_id = ?", s.ID).Delete(&models.AttendanceBreak{}).Error; err != nil {
			return err
		}
		if len(s.Breaks) > 0 {
			for i := range s.Breaks {
				s.Breaks[i].AttendanceID = s.ID
			}
			if err := tx.Create(&s.Breaks).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Version = expected + 1
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendance_id = ?", id).Delete(&models.AttendanceBreak{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Attendance{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

func (r *GormRepository) OpenBefore(ctx context.Context, cutoff time.Time) ([]models.Attendance, error) {
	var rows []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Breaks", breakOrder).
		Where("clock_out IS NULL AND clock_in < ?", cutoff).
		Order("clock_in ASC").
		Find(&rows).Error
	return rows, err
}

// GormDirectory เช็ค user จากตาราง users — คน inactive ถือว่า "ไม่พบ"
// สำหรับงานสร้าง manual entry
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory { return &GormDirectory{db: db} }

func (d *GormDirectory) Lookup(ctx context.Context, userID uint) (string, bool, error) {
	var u models.User
	err := d.db.WithContext(ctx).First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return u.Name, u.Active, nil
}
