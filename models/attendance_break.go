package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ช่วงพักย่อยภายใน session — เรียงตามลำดับที่เพิ่ม (ตัวสุดท้ายคือ break ปัจจุบันถ้ายังเปิด)
type AttendanceBreak struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AttendanceID uuid.UUID  `json:"attendance_id" gorm:"type:uuid;index;not null"`
	StartTime    time.Time  `json:"start_time" gorm:"not null"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (b *AttendanceBreak) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
