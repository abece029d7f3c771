package attendance

import "errors"

// business-rule errors — ฝั่ง HTTP map เป็น 4xx ทั้งหมด
var (
	ErrNoActiveSession = errors.New("no active attendance session")
	ErrAlreadyOnBreak  = errors.New("already on break")
	ErrNotOnBreak      = errors.New("not on break")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("attendance session not found")

	// optimistic write ชนกัน — Tracker จะ retry ให้หนึ่งครั้งก่อนคืน error นี้
	ErrConflict = errors.New("concurrent attendance update")
)
