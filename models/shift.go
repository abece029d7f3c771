package models

import "time"

// กะการทำงาน เช่น "เช้า 09:00-17:00 จ-ศ"
type Shift struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:60;not null"`
	StartTime string    `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime   string    `json:"end_time" gorm:"size:5;not null"`   // HH:MM
	Days      string    `json:"days" gorm:"size:30"`               // วันที่ทำงาน เช่น "1,2,3,4,5" (จันทร์=1)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// มอบหมายกะให้พนักงานในช่วงวันที่กำหนด
type ShiftAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ShiftID   uint      `json:"shift_id" gorm:"index;not null"`
	DateFrom  string    `json:"date_from" gorm:"size:10;not null"` // YYYY-MM-DD
	DateTo    string    `json:"date_to" gorm:"size:10;not null"`   // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
