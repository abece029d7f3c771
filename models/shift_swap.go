package models

import "time"

// สถานะการสลับกะ: รอเพื่อนตอบ → รอ manager อนุมัติ → จบ
const (
	SwapPending  = "pending"  // รอ target ตอบรับ
	SwapAccepted = "accepted" // target ตอบรับแล้ว รอ manager
	SwapDeclined = "declined" // target ปฏิเสธ
	SwapApproved = "approved" // manager อนุมัติ — สลับเวรแล้ว
	SwapRejected = "rejected" // manager ปฏิเสธ
	SwapCanceled = "canceled" // ผู้ขอยกเลิกเอง
)

type ShiftSwap struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	RequesterID        uint       `json:"requester_id" gorm:"index;not null"`
	TargetID           uint       `json:"target_id" gorm:"index;not null"`
	AssignmentID       uint       `json:"assignment_id" gorm:"not null"` // เวรของผู้ขอ
	TargetAssignmentID *uint      `json:"target_assignment_id"`          // เวรของ target (nil = ยกเวรให้เฉย ๆ)
	Reason             string     `json:"reason" gorm:"type:text"`
	Status             string     `json:"status" gorm:"size:20;not null;default:pending"`
	DecidedBy          *uint      `json:"decided_by"`
	DecidedAt          *time.Time `json:"decided_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
