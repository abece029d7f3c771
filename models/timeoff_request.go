package models

import "time"

// สถานะคำขอลา
const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
	TimeOffCanceled = "canceled"
)

type TimeOffRequest struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	Type         string     `json:"type" gorm:"size:40;not null"`      // vacation/sick/personal/other
	Reason       string     `json:"reason" gorm:"type:text"`           // เหตุผล (ค้นหาได้)
	DateFrom     string     `json:"date_from" gorm:"size:10;not null"` // YYYY-MM-DD
	DateTo       string     `json:"date_to" gorm:"size:10;not null"`   // YYYY-MM-DD
	Status       string     `json:"status" gorm:"size:20;not null;default:pending"`
	SubmittedAt  time.Time  `json:"submitted_at" gorm:"autoCreateTime"`
	DecidedAt    *time.Time `json:"decided_at"`
	DecidedBy    *uint      `json:"decided_by"` // user_id ของ manager/admin ที่อนุมัติ/ปฏิเสธ
	RejectReason string     `json:"reject_reason" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
