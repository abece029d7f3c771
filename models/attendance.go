package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ที่มาของ record — ใช้เพื่อ audit/รายงานเท่านั้น ไม่มีผลต่อ state transition
const (
	SourceNormal       = "normal"
	SourceManualEntry  = "manual_entry"
	SourceAutoClockOut = "auto_clockout"
)

// หนึ่ง session = ช่วง clock-in → clock-out ต่อเนื่องหนึ่งช่วงของพนักงาน
// session ที่ยังไม่ clock-out จะมี ClockOut = nil
type Attendance struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uint              `json:"user_id" gorm:"index:idx_attendances_user_clock_in,priority:1;not null"`
	ClockIn    time.Time         `json:"clock_in" gorm:"index:idx_attendances_user_clock_in,priority:2,sort:desc;not null"`
	ClockOut   *time.Time        `json:"clock_out,omitempty"`
	Breaks     []AttendanceBreak `json:"breaks" gorm:"foreignKey:AttendanceID;constraint:OnDelete:CASCADE"`
	Notes      string            `json:"notes,omitempty" gorm:"type:text"`
	Source     string            `json:"source" gorm:"size:20;not null;default:normal"`
	ModifiedBy *uint             `json:"modified_by,omitempty"` // user_id ของ admin ที่แก้ (ถ้า source != normal)
	Version    uint              `json:"-" gorm:"not null;default:0"` // optimistic lock
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Attendance) IsOpen() bool { return a.ClockOut == nil }

// break ตัวสุดท้ายถ้ายังเปิดอยู่ (EndTime = nil) — มีได้อย่างมากหนึ่งตัว
func (a *Attendance) OpenBreak() *AttendanceBreak {
	if len(a.Breaks) == 0 {
		return nil
	}
	last := &a.Breaks[len(a.Breaks)-1]
	if last.EndTime == nil {
		return last
	}
	return nil
}

func (a *Attendance) IsOnBreak() bool { return a.OpenBreak() != nil }

// รวมนาทีพักจาก break ที่ปิดแล้วเท่านั้น (break ที่ยังเปิดไม่นับ)
func (a *Attendance) TotalBreakMinutes() float64 {
	var total time.Duration
	for i := range a.Breaks {
		b := &a.Breaks[i]
		if b.EndTime == nil {
			continue
		}
		if d := b.EndTime.Sub(b.StartTime); d > 0 {
			total += d
		}
	}
	return total.Minutes()
}

// ชั่วโมงทำงาน = (clock_out - clock_in) - เวลาพักรวม
// session ที่ยังเปิดอยู่คืน 0 (ยังสรุปไม่ได้) และ clamp ไม่ให้ติดลบ
func (a *Attendance) TotalWorkHours() float64 {
	if a.ClockOut == nil {
		return 0
	}
	d := a.ClockOut.Sub(a.ClockIn) - time.Duration(a.TotalBreakMinutes()*float64(time.Minute))
	if d < 0 {
		return 0
	}
	return d.Hours()
}
