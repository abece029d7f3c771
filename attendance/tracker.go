package attendance

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

// Tracker คุม state ของ attendance session ต่อ user:
// เปิด/ปิด session, จัดการ break, ตอบสถานะปัจจุบัน และซ่อม session ที่ค้างข้ามวัน
//
// invariant หลัก: user หนึ่งคนมี session เปิดได้อย่างมากหนึ่งตัว —
// บังคับด้วย read-repair ตอน clock-in (ปิดของเก่าทั้งหมดก่อนเปิดใหม่)
// ไม่ใช่ uniqueness constraint ใน store
type Tracker struct {
	repo  Repository
	users Directory
	clock Clock
}

func NewTracker(repo Repository, users Directory, clock Clock) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tracker{repo: repo, users: users, clock: clock}
}

// สถานะ ณ ตอนนี้ของ user หนึ่งคน — อ่านอย่างเดียว ไม่มี side effect
type StatusSnapshot struct {
	UserID         uint       `json:"user_id"`
	IsClockedIn    bool       `json:"is_clocked_in"`
	ClockInTime    *time.Time `json:"clock_in_time,omitempty"`
	ClockOutTime   *time.Time `json:"clock_out_time,omitempty"`
	OnBreak        bool       `json:"on_break"`
	BreakStartTime *time.Time `json:"break_start_time,omitempty"`
	AttendanceID   *uuid.UUID `json:"attendance_id,omitempty"`
	TotalBreaks    int        `json:"total_breaks"`
	LastUpdated    time.Time  `json:"last_updated"`
}

type BreakInput struct {
	Start time.Time
	End   *time.Time
}

type ManualEntryInput struct {
	UserID   uint
	ClockIn  time.Time
	ClockOut *time.Time
	Breaks   []BreakInput
	Notes    string
}

// partial update — ฟิลด์ที่เป็น nil = ไม่แตะ
type SessionUpdate struct {
	ClockIn  *time.Time
	ClockOut *time.Time
	Notes    *string
	Breaks   *[]BreakInput // ถ้าไม่ nil แทนที่ break ทั้ง list
}

// ClockIn ปิด session เก่าที่ยังค้างทั้งหมดของ user ก่อน (ตั้ง clock_out = ตอนนี้)
// แล้วค่อยเปิด session ใหม่ — คนที่ลืม clock-out จะถูกซ่อมให้เอง ไม่โดน reject
func (t *Tracker) ClockIn(ctx context.Context, userID uint) (*models.Attendance, error) {
	now := t.clock.Now()
	err := t.retry(func() error {
		open, err := t.repo.OpenSessions(ctx, userID)
		if err != nil {
			return err
		}
		for i := range open {
			s := open[i]
			closeSessionAt(&s, now)
			if err := t.repo.Save(ctx, &s, s.Version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec := &models.Attendance{
		UserID:  userID,
		ClockIn: now,
		Breaks:  []models.AttendanceBreak{},
		Source:  models.SourceNormal,
	}
	if err := t.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ClockOut ปิด session เปิดตัวล่าสุด (clock_in ใหม่สุดชนะ ถ้าบังเอิญเปิดค้างหลายตัว)
// ถ้ามี break ค้างอยู่จะปิด break ให้ก่อนเสมอ
func (t *Tracker) ClockOut(ctx context.Context, userID uint) (*models.Attendance, error) {
	var out *models.Attendance
	err := t.retry(func() error {
		open, err := t.repo.OpenSessions(ctx, userID)
		if err != nil {
			return err
		}
		if len(open) == 0 {
			return ErrNoActiveSession
		}
		s := open[0]
		closeSessionAt(&s, t.clock.Now())
		if err := t.repo.Save(ctx, &s, s.Version); err != nil {
			return err
		}
		out = &s
		return nil
	})
	return out, err
}

// StartBreak เริ่มพักใน session เปิดของ "วันนี้" เท่านั้น
func (t *Tracker) StartBreak(ctx context.Context, userID uint) (*models.Attendance, error) {
	var out *models.Attendance
	err := t.retry(func() error {
		s, err := t.todayOpenSession(ctx, userID)
		if err != nil {
			return err
		}
		if s.IsOnBreak() {
			return ErrAlreadyOnBreak
		}
		s.Breaks = append(s.Breaks, models.AttendanceBreak{
			AttendanceID: s.ID,
			StartTime:    t.clock.Now(),
		})
		if err := t.repo.Save(ctx, s, s.Version); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// EndBreak ปิด break ตัวล่าสุดที่ยังเปิดอยู่
func (t *Tracker) EndBreak(ctx context.Context, userID uint) (*models.Attendance, error) {
	var out *models.Attendance
	err := t.retry(func() error {
		s, err := t.todayOpenSession(ctx, userID)
		if err != nil {
			return err
		}
		br := s.OpenBreak()
		if br == nil {
			return ErrNotOnBreak
		}
		end := t.clock.Now()
		br.EndTime = &end
		if err := t.repo.Save(ctx, s, s.Version); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// Status ดู session ของวันนี้ก่อน ถ้าไม่มีหรือปิดไปแล้ว
// ค่อย fallback ไปหา session เปิดค้างจากวันก่อน ๆ (ที่ reconcile ยังไม่ได้เก็บ)
func (t *Tracker) Status(ctx context.Context, userID uint) (*StatusSnapshot, error) {
	now := t.clock.Now()
	from, to := startOfDay(now), endOfDay(now)

	var cur *models.Attendance
	today, err := t.repo.SessionsForUser(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}
	if len(today) > 0 {
		cur = &today[0]
	}
	if cur == nil || !cur.IsOpen() {
		open, err := t.repo.OpenSessions(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(open) > 0 {
			cur = &open[0]
		}
	}

	snap := &StatusSnapshot{UserID: userID, LastUpdated: now}
	if cur == nil {
		return snap, nil
	}
	in := cur.ClockIn
	id := cur.ID
	snap.AttendanceID = &id
	snap.IsClockedIn = cur.IsOpen()
	snap.ClockInTime = &in
	snap.ClockOutTime = cur.ClockOut
	snap.TotalBreaks = len(cur.Breaks)
	if br := cur.OpenBreak(); br != nil {
		snap.OnBreak = true
		st := br.StartTime
		snap.BreakStartTime = &st
	}
	return snap, nil
}

// History คืน session เรียง clock_in ใหม่สุดก่อน
// ถ้าส่งช่วงวันที่มา จะกรองแบบรวมขอบเขตทั้งวัน [startOfDay(from), endOfDay(to)]
func (t *Tracker) History(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error) {
	var lo, hi *time.Time
	if from != nil {
		v := startOfDay(*from)
		lo = &v
	}
	if to != nil {
		v := endOfDay(*to)
		hi = &v
	}
	return t.repo.SessionsForUser(ctx, userID, lo, hi)
}

// ManualEntry สร้าง record ย้อนหลังโดย admin/manager
// นโยบาย: manual entry เป็น session ธรรมดาภายใต้โมเดลหลาย session ต่อวัน
// (ไม่บังคับหนึ่ง entry ต่อวัน — ใช้ read-repair เหมือน clock-in ปกติ)
func (t *Tracker) ManualEntry(ctx context.Context, adminID uint, in ManualEntryInput) (*models.Attendance, error) {
	_, ok, err := t.users.Lookup(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	rec := &models.Attendance{
		UserID:     in.UserID,
		ClockIn:    in.ClockIn,
		ClockOut:   in.ClockOut,
		Notes:      in.Notes,
		Source:     models.SourceManualEntry,
		ModifiedBy: &adminID,
	}
	for _, b := range in.Breaks {
		rec.Breaks = append(rec.Breaks, models.AttendanceBreak{
			StartTime: b.Start,
			EndTime:   b.End,
		})
	}
	if err := t.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AdminUpdate แก้เฉพาะฟิลด์ที่ส่งมา และ mark record ว่าโดนมือ admin แตะแล้ว
// ไม่ revalidate ว่า break อยู่ในช่วง clock_in..clock_out — ปล่อยเป็น advisory
// (ตัวคำนวณชั่วโมงใน models clamp ค่าติดลบเป็น 0 อยู่แล้ว)
func (t *Tracker) AdminUpdate(ctx context.Context, adminID uint, id uuid.UUID, upd SessionUpdate) (*models.Attendance, error) {
	var out *models.Attendance
	err := t.retry(func() error {
		s, err := t.repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.ClockIn != nil {
			s.ClockIn = *upd.ClockIn
		}
		if upd.ClockOut != nil {
			v := *upd.ClockOut
			s.ClockOut = &v
		}
		if upd.Notes != nil {
			s.Notes = *upd.Notes
		}
		if upd.Breaks != nil {
			brs := make([]models.AttendanceBreak, 0, len(*upd.Breaks))
			for _, b := range *upd.Breaks {
				brs = append(brs, models.AttendanceBreak{
					AttendanceID: s.ID,
					StartTime:    b.Start,
					EndTime:      b.End,
				})
			}
			s.Breaks = brs
		}
		s.ModifiedBy = &adminID
		if s.Source == models.SourceNormal {
			s.Source = models.SourceManualEntry
		}
		if err := t.repo.Save(ctx, s, s.Version); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// AdminDelete ลบจริง (hard delete) — ไม่มี cascade อื่นนอกจาก breaks ของ record เอง
func (t *Tracker) AdminDelete(ctx context.Context, id uuid.UUID) error {
	return t.repo.Delete(ctx, id)
}

// ReconcileStuck ปิด session ทุกตัวที่เปิดค้างก่อน cutoff (เปิดวันก่อนแล้วไม่เคยปิด)
// โดยตั้ง clock_out = สิ้นวันของวันที่ clock-in
// idempotent: รันซ้ำรอบสองไม่มีอะไรให้ทำเพราะรอบแรกเก็บหมดแล้ว
// record ที่เขียนพลาดจะถูก log แล้วข้าม — batch เดินต่อ
func (t *Tracker) ReconcileStuck(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := t.repo.OpenBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for i := range rows {
		s := rows[i]
		if err := t.autoClose(ctx, &s); err != nil {
			log.Printf("[auto-clockout] skip session %s (user %d): %v", s.ID, s.UserID, err)
			continue
		}
		fixed++
	}
	return fixed, nil
}

// ReconcileUser ปิด session ค้างของ user+วันที่ระบุ (ปุ่ม auto-clockout รายคนฝั่ง admin)
func (t *Tracker) ReconcileUser(ctx context.Context, userID uint, day time.Time) (int, error) {
	from, to := startOfDay(day), endOfDay(day)
	rows, err := t.repo.SessionsForUser(ctx, userID, &from, &to)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for i := range rows {
		if !rows[i].IsOpen() {
			continue
		}
		s := rows[i]
		if err := t.autoClose(ctx, &s); err != nil {
			log.Printf("[auto-clockout] skip session %s (user %d): %v", s.ID, s.UserID, err)
			continue
		}
		fixed++
	}
	return fixed, nil
}

func (t *Tracker) autoClose(ctx context.Context, s *models.Attendance) error {
	closeSessionAt(s, endOfDay(s.ClockIn))
	s.Source = models.SourceAutoClockOut
	return t.repo.Save(ctx, s, s.Version)
}

// optimistic write ชนกันให้ลองใหม่หนึ่งครั้ง (op ต้องอ่าน state ใหม่เองข้างใน)
func (t *Tracker) retry(op func() error) error {
	err := op()
	if errors.Is(err, ErrConflict) {
		err = op()
	}
	return err
}

// session เปิดของวันนี้ — นับจากวันที่ของ clock_in
func (t *Tracker) todayOpenSession(ctx context.Context, userID uint) (*models.Attendance, error) {
	now := t.clock.Now()
	from, to := startOfDay(now), endOfDay(now)
	rows, err := t.repo.SessionsForUser(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].IsOpen() {
			return &rows[i], nil
		}
	}
	return nil, ErrNoActiveSession
}

// ปิด session ที่เวลา at — ถ้ามี break ค้างให้ปิด break ก่อนเสมอ
func closeSessionAt(s *models.Attendance, at time.Time) {
	if br := s.OpenBreak(); br != nil {
		end := at
		br.EndTime = &end
	}
	out := at
	s.ClockOut = &out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
