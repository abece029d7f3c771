package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/models"
)

// ---------- fakes ----------

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time              { return c.t }
func (c *fakeClock) Set(t time.Time)             { c.t = t }
func (c *fakeClock) Advance(d time.Duration)     { c.t = c.t.Add(d) }
func (c *fakeClock) At(h, m int) time.Time       { y, mo, d := c.t.Date(); return time.Date(y, mo, d, h, m, 0, 0, c.t.Location()) }

type fakeDirectory struct {
	users map[uint]string
}

func (d *fakeDirectory) Lookup(ctx context.Context, userID uint) (string, bool, error) {
	name, ok := d.users[userID]
	return name, ok, nil
}

// in-memory Repository ที่เคารพ version semantics เดียวกับ GormRepository
type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Attendance
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]*models.Attendance{}}
}

func cloneSession(s *models.Attendance) *models.Attendance {
	cp := *s
	if s.ClockOut != nil {
		v := *s.ClockOut
		cp.ClockOut = &v
	}
	if s.ModifiedBy != nil {
		v := *s.ModifiedBy
		cp.ModifiedBy = &v
	}
	cp.Breaks = make([]models.AttendanceBreak, len(s.Breaks))
	copy(cp.Breaks, s.Breaks)
	for i := range cp.Breaks {
		if s.Breaks[i].EndTime != nil {
			v := *s.Breaks[i].EndTime
			cp.Breaks[i].EndTime = &v
		}
	}
	return &cp
}

func (r *memRepo) Create(ctx context.Context, s *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Breaks {
		if s.Breaks[i].ID == uuid.Nil {
			s.Breaks[i].ID = uuid.New()
		}
		s.Breaks[i].AttendanceID = s.ID
	}
	r.rows[s.ID] = cloneSession(s)
	return nil
}

func (r *memRepo) all() []*models.Attendance {
	out := make([]*models.Attendance, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.After(out[j].ClockIn) })
	return out
}

func (r *memRepo) OpenSessions(ctx context.Context, userID uint) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []models.Attendance
	for _, s := range r.all() {
		if s.UserID == userID && s.ClockOut == nil {
			rows = append(rows, *cloneSession(s))
		}
	}
	return rows, nil
}

func (r *memRepo) SessionsForUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []models.Attendance
	for _, s := range r.all() {
		if s.UserID != userID {
			continue
		}
		if from != nil && s.ClockIn.Before(*from) {
			continue
		}
		if to != nil && s.ClockIn.After(*to) {
			continue
		}
		rows = append(rows, *cloneSession(s))
	}
	return rows, nil
}

func (r *memRepo) ByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *memRepo) Save(ctx context.Context, s *models.Attendance, expected uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[s.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if cur.Version != expected {
		return ErrConflict
	}
	s.Version = expected + 1
	for i := range s.Breaks {
		if s.Breaks[i].ID == uuid.Nil {
			s.Breaks[i].ID = uuid.New()
		}
		s.Breaks[i].AttendanceID = s.ID
	}
	r.rows[s.ID] = cloneSession(s)
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) OpenBefore(ctx context.Context, cutoff time.Time) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []models.Attendance
	for _, s := range r.all() {
		if s.ClockOut == nil && s.ClockIn.Before(cutoff) {
			rows = append(rows, *cloneSession(s))
		}
	}
	return rows, nil
}

// repo wrapper ที่ทำให้ Save ของ session หนึ่งพังตลอด — ใช้ทดสอบ partial failure
type failingSaveRepo struct {
	Repository
	failID uuid.UUID
}

func (r *failingSaveRepo) Save(ctx context.Context, s *models.Attendance, expected uint) error {
	if s.ID == r.failID {
		return errors.New("simulated storage failure")
	}
	return r.Repository.Save(ctx, s, expected)
}

// repo wrapper ที่คืน ErrConflict ครั้งแรกแล้วค่อยปล่อยผ่าน — ใช้ทดสอบ retry
type conflictOnceRepo struct {
	Repository
	hit bool
}

func (r *conflictOnceRepo) Save(ctx context.Context, s *models.Attendance, expected uint) error {
	if !r.hit {
		r.hit = true
		return ErrConflict
	}
	return r.Repository.Save(ctx, s, expected)
}

// ---------- setup ----------

const userAlice uint = 1

func newTestTracker() (*Tracker, *memRepo, *fakeClock) {
	repo := newMemRepo()
	// 2025-03-10 09:00 จันทร์
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	dir := &fakeDirectory{users: map[uint]string{userAlice: "Alice", 2: "Bob"}}
	return NewTracker(repo, dir, clock), repo, clock
}

// ---------- tests ----------

func TestFullWorkday(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Set(clock.At(12, 0))
	if _, err := trk.StartBreak(ctx, userAlice); err != nil {
		t.Fatalf("StartBreak error: %v", err)
	}
	clock.Set(clock.At(12, 30))
	if _, err := trk.EndBreak(ctx, userAlice); err != nil {
		t.Fatalf("EndBreak error: %v", err)
	}
	clock.Set(clock.At(17, 0))
	rec, err := trk.ClockOut(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockOut error: %v", err)
	}

	if got := rec.TotalWorkHours(); got != 7.5 {
		t.Fatalf("TotalWorkHours = %v, want 7.5", got)
	}
	if got := rec.TotalBreakMinutes(); got != 30 {
		t.Fatalf("TotalBreakMinutes = %v, want 30", got)
	}
	if rec.IsOnBreak() {
		t.Fatalf("session should not be on break after clock-out")
	}
}

func TestClockInRepairsStaleOpenSession(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	// เมื่อวาน 09:00 clock-in แล้วลืม clock-out
	stale, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	// วันนี้ 09:05 clock-in ใหม่
	clock.Set(clock.t.AddDate(0, 0, 1).Add(5 * time.Minute))
	fresh, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	old, err := trk.History(ctx, userAlice, nil, nil)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(old) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(old))
	}
	for _, s := range old {
		if s.ID == stale.ID {
			if s.ClockOut == nil {
				t.Fatalf("stale session was not closed by the new clock-in")
			}
			if !s.ClockOut.Equal(clock.t) {
				t.Fatalf("stale session closed at %v, want repair time %v", s.ClockOut, clock.t)
			}
		}
	}

	snap, err := trk.Status(ctx, userAlice)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !snap.IsClockedIn || snap.AttendanceID == nil || *snap.AttendanceID != fresh.ID {
		t.Fatalf("status should report the fresh session, got %+v", snap)
	}

	open, err := trk.repo.OpenSessions(ctx, userAlice)
	if err != nil {
		t.Fatalf("OpenSessions error: %v", err)
	}
	if len(open) != 1 || open[0].ID != fresh.ID {
		t.Fatalf("expected exactly the fresh session open, got %d open", len(open))
	}
}

func TestSingleOpenInvariantAfterInterleaving(t *testing.T) {
	trk, repo, clock := newTestTracker()
	ctx := context.Background()

	// สลับ clock-in/clock-out มั่ว ๆ หลายรอบ รวมถึง clock-in ติดกันโดยไม่ปิด
	var last *models.Attendance
	for i := 0; i < 5; i++ {
		var err error
		last, err = trk.ClockIn(ctx, userAlice)
		if err != nil {
			t.Fatalf("ClockIn #%d error: %v", i, err)
		}
		clock.Advance(10 * time.Minute)
		if i%2 == 0 {
			if _, err := trk.ClockOut(ctx, userAlice); err != nil {
				t.Fatalf("ClockOut #%d error: %v", i, err)
			}
			clock.Advance(10 * time.Minute)
		}
	}
	last, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("final ClockIn error: %v", err)
	}

	open, err := repo.OpenSessions(ctx, userAlice)
	if err != nil {
		t.Fatalf("OpenSessions error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected exactly 1 open session, got %d", len(open))
	}
	if open[0].ID != last.ID {
		t.Fatalf("open session is not the most recently created one")
	}
}

func TestBreakRoundTrip(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := trk.StartBreak(ctx, userAlice); err != nil {
		t.Fatalf("StartBreak error: %v", err)
	}
	// เริ่มซ้อนไม่ได้
	if _, err := trk.StartBreak(ctx, userAlice); !errors.Is(err, ErrAlreadyOnBreak) {
		t.Fatalf("second StartBreak = %v, want ErrAlreadyOnBreak", err)
	}

	clock.Advance(15 * time.Minute)
	rec, err := trk.EndBreak(ctx, userAlice)
	if err != nil {
		t.Fatalf("EndBreak error: %v", err)
	}
	if rec.IsOnBreak() {
		t.Fatalf("still on break after EndBreak")
	}
	if len(rec.Breaks) != 1 {
		t.Fatalf("expected exactly 1 break, got %d", len(rec.Breaks))
	}
	b := rec.Breaks[0]
	if b.EndTime == nil || b.EndTime.Before(b.StartTime) {
		t.Fatalf("break must be closed with end >= start, got %+v", b)
	}

	// ปิดซ้ำไม่ได้
	if _, err := trk.EndBreak(ctx, userAlice); !errors.Is(err, ErrNotOnBreak) {
		t.Fatalf("second EndBreak = %v, want ErrNotOnBreak", err)
	}
}

func TestClockOutClosesDanglingBreak(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Advance(3 * time.Hour)
	if _, err := trk.StartBreak(ctx, userAlice); err != nil {
		t.Fatalf("StartBreak error: %v", err)
	}

	clock.Advance(30 * time.Minute)
	rec, err := trk.ClockOut(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockOut error: %v", err)
	}
	if rec.OpenBreak() != nil {
		t.Fatalf("clock-out left a break open")
	}
	b := rec.Breaks[len(rec.Breaks)-1]
	if rec.ClockOut.Before(*b.EndTime) {
		t.Fatalf("clock_out %v is before break end %v", rec.ClockOut, b.EndTime)
	}
}

func TestMissingSessionErrors(t *testing.T) {
	trk, _, _ := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockOut(ctx, userAlice); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("ClockOut = %v, want ErrNoActiveSession", err)
	}
	if _, err := trk.StartBreak(ctx, userAlice); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("StartBreak = %v, want ErrNoActiveSession", err)
	}
	if _, err := trk.EndBreak(ctx, userAlice); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("EndBreak = %v, want ErrNoActiveSession", err)
	}
}

func TestBreaksScopedToToday(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	// session ค้างจากเมื่อวาน — break ของวันนี้ต้องไม่ไปเกาะมัน
	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Set(clock.t.AddDate(0, 0, 1))
	if _, err := trk.StartBreak(ctx, userAlice); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("StartBreak on stale session = %v, want ErrNoActiveSession", err)
	}
}

func TestStatusFallsBackToStaleOpenSession(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	rec, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	// วันถัดมา ยังไม่มี session ของวันนี้ — status ต้องเห็นตัวที่ค้างจากเมื่อวาน
	clock.Set(clock.t.AddDate(0, 0, 1))
	snap, err := trk.Status(ctx, userAlice)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !snap.IsClockedIn || snap.AttendanceID == nil || *snap.AttendanceID != rec.ID {
		t.Fatalf("status should fall back to the stale open session, got %+v", snap)
	}
}

func TestStatusWhenNoSessions(t *testing.T) {
	trk, _, _ := newTestTracker()
	snap, err := trk.Status(context.Background(), userAlice)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if snap.IsClockedIn || snap.OnBreak || snap.AttendanceID != nil {
		t.Fatalf("empty status expected, got %+v", snap)
	}
}

func TestStatusOnBreak(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Advance(time.Hour)
	if _, err := trk.StartBreak(ctx, userAlice); err != nil {
		t.Fatalf("StartBreak error: %v", err)
	}
	snap, err := trk.Status(ctx, userAlice)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !snap.OnBreak || snap.BreakStartTime == nil || !snap.BreakStartTime.Equal(clock.t) {
		t.Fatalf("expected on-break status starting %v, got %+v", clock.t, snap)
	}
	if snap.TotalBreaks != 1 {
		t.Fatalf("TotalBreaks = %d, want 1", snap.TotalBreaks)
	}
}

func TestReconcileStuckIdempotent(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	// เปิดค้างเมื่อสองวันก่อน ไม่เคยปิด
	stale, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Set(clock.t.AddDate(0, 0, 2))
	cutoff := startOfDay(clock.t)

	fixed, err := trk.ReconcileStuck(ctx, cutoff)
	if err != nil {
		t.Fatalf("ReconcileStuck error: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("first run fixed = %d, want 1", fixed)
	}

	rows, err := trk.History(ctx, userAlice, nil, nil)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	got := rows[0]
	if got.ID != stale.ID || got.ClockOut == nil {
		t.Fatalf("stale session not closed: %+v", got)
	}
	if want := endOfDay(stale.ClockIn); !got.ClockOut.Equal(want) {
		t.Fatalf("clock_out = %v, want end of clock-in day %v", got.ClockOut, want)
	}
	if got.Source != models.SourceAutoClockOut {
		t.Fatalf("source = %q, want %q", got.Source, models.SourceAutoClockOut)
	}

	// รอบสองต้องไม่มีอะไรให้ทำ
	fixed, err = trk.ReconcileStuck(ctx, cutoff)
	if err != nil {
		t.Fatalf("second ReconcileStuck error: %v", err)
	}
	if fixed != 0 {
		t.Fatalf("second run fixed = %d, want 0", fixed)
	}
}

func TestReconcileSkipsFailingRecord(t *testing.T) {
	trk, repo, clock := newTestTracker()
	ctx := context.Background()

	bad, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Advance(time.Hour)
	if _, err := trk.ClockIn(ctx, 2); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}

	clock.Set(clock.t.AddDate(0, 0, 1))
	trk.repo = &failingSaveRepo{Repository: repo, failID: bad.ID}

	fixed, err := trk.ReconcileStuck(ctx, startOfDay(clock.t))
	if err != nil {
		t.Fatalf("ReconcileStuck should tolerate per-record failures, got %v", err)
	}
	if fixed != 1 {
		t.Fatalf("fixed = %d, want 1 (the non-failing record)", fixed)
	}

	// พอ storage หายป่วย รอบถัดไปเก็บตัวที่ค้างให้ครบ
	trk.repo = repo
	fixed, err = trk.ReconcileStuck(ctx, startOfDay(clock.t))
	if err != nil {
		t.Fatalf("ReconcileStuck error: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("follow-up run fixed = %d, want 1", fixed)
	}
}

func TestReconcileUserSingleDay(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	day := clock.t
	rec, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Set(clock.t.AddDate(0, 0, 3))

	fixed, err := trk.ReconcileUser(ctx, userAlice, day)
	if err != nil {
		t.Fatalf("ReconcileUser error: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("fixed = %d, want 1", fixed)
	}
	got, err := trk.repo.ByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ByID error: %v", err)
	}
	if got.ClockOut == nil || !got.ClockOut.Equal(endOfDay(day)) {
		t.Fatalf("clock_out = %v, want %v", got.ClockOut, endOfDay(day))
	}

	// วันที่ไม่มีอะไรค้าง
	fixed, err = trk.ReconcileUser(ctx, userAlice, day)
	if err != nil || fixed != 0 {
		t.Fatalf("second ReconcileUser = (%d, %v), want (0, nil)", fixed, err)
	}
}

func TestHistoryRange(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()

	// สามวันติด วันละหนึ่ง session
	var days []time.Time
	for i := 0; i < 3; i++ {
		days = append(days, clock.t)
		if _, err := trk.ClockIn(ctx, userAlice); err != nil {
			t.Fatalf("ClockIn error: %v", err)
		}
		clock.Advance(8 * time.Hour)
		if _, err := trk.ClockOut(ctx, userAlice); err != nil {
			t.Fatalf("ClockOut error: %v", err)
		}
		clock.Set(startOfDay(clock.t).AddDate(0, 0, 1).Add(9 * time.Hour))
	}

	all, err := trk.History(ctx, userAlice, nil, nil)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	// เรียงใหม่สุดก่อน
	for i := 1; i < len(all); i++ {
		if all[i].ClockIn.After(all[i-1].ClockIn) {
			t.Fatalf("history not sorted clock_in desc")
		}
	}

	// ช่วงกลางวันเดียว — ขอบเขตรวมทั้งวัน
	mid := days[1]
	rows, err := trk.History(ctx, userAlice, &mid, &mid)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(rows) != 1 || !rows[0].ClockIn.Equal(mid) {
		t.Fatalf("ranged history = %d rows, want the middle day only", len(rows))
	}
}

func TestManualEntry(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()
	const adminID uint = 99

	if _, err := trk.ManualEntry(ctx, adminID, ManualEntryInput{UserID: 777, ClockIn: clock.t}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ManualEntry unknown user = %v, want ErrUserNotFound", err)
	}

	in := clock.At(9, 0)
	out := clock.At(17, 0)
	bEnd := clock.At(12, 30)
	rec, err := trk.ManualEntry(ctx, adminID, ManualEntryInput{
		UserID:   userAlice,
		ClockIn:  in,
		ClockOut: &out,
		Breaks:   []BreakInput{{Start: clock.At(12, 0), End: &bEnd}},
		Notes:    "forgot badge",
	})
	if err != nil {
		t.Fatalf("ManualEntry error: %v", err)
	}
	if rec.Source != models.SourceManualEntry {
		t.Fatalf("source = %q, want manual_entry", rec.Source)
	}
	if rec.ModifiedBy == nil || *rec.ModifiedBy != adminID {
		t.Fatalf("modified_by = %v, want %d", rec.ModifiedBy, adminID)
	}
	if got := rec.TotalWorkHours(); got != 7.5 {
		t.Fatalf("TotalWorkHours = %v, want 7.5", got)
	}

	// นโยบายหลาย session ต่อวัน: สร้าง entry วันเดียวกันซ้ำได้
	if _, err := trk.ManualEntry(ctx, adminID, ManualEntryInput{UserID: userAlice, ClockIn: clock.At(18, 0)}); err != nil {
		t.Fatalf("second manual entry same day should be allowed, got %v", err)
	}
}

func TestAdminUpdatePartial(t *testing.T) {
	trk, _, clock := newTestTracker()
	ctx := context.Background()
	const adminID uint = 99

	rec, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Advance(8 * time.Hour)
	if _, err := trk.ClockOut(ctx, userAlice); err != nil {
		t.Fatalf("ClockOut error: %v", err)
	}

	newOut := clock.At(18, 0)
	notes := "corrected by HR"
	got, err := trk.AdminUpdate(ctx, adminID, rec.ID, SessionUpdate{ClockOut: &newOut, Notes: &notes})
	if err != nil {
		t.Fatalf("AdminUpdate error: %v", err)
	}
	if !got.ClockOut.Equal(newOut) || got.Notes != notes {
		t.Fatalf("update not applied: %+v", got)
	}
	// clock_in เดิมต้องไม่โดนแตะ
	if !got.ClockIn.Equal(rec.ClockIn) {
		t.Fatalf("clock_in changed unexpectedly")
	}
	if got.Source != models.SourceManualEntry {
		t.Fatalf("source = %q, want manual_entry after admin edit", got.Source)
	}
	if got.ModifiedBy == nil || *got.ModifiedBy != adminID {
		t.Fatalf("modified_by not set")
	}

	// แทนที่ breaks ทั้งชุด
	bEnd := clock.At(13, 0)
	brs := []BreakInput{{Start: clock.At(12, 0), End: &bEnd}}
	got, err = trk.AdminUpdate(ctx, adminID, rec.ID, SessionUpdate{Breaks: &brs})
	if err != nil {
		t.Fatalf("AdminUpdate breaks error: %v", err)
	}
	if len(got.Breaks) != 1 || got.TotalBreakMinutes() != 60 {
		t.Fatalf("breaks not replaced: %+v", got.Breaks)
	}

	if _, err := trk.AdminUpdate(ctx, adminID, uuid.New(), SessionUpdate{Notes: &notes}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("AdminUpdate unknown id = %v, want ErrSessionNotFound", err)
	}
}

func TestAdminDelete(t *testing.T) {
	trk, _, _ := newTestTracker()
	ctx := context.Background()

	rec, err := trk.ClockIn(ctx, userAlice)
	if err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	if err := trk.AdminDelete(ctx, rec.ID); err != nil {
		t.Fatalf("AdminDelete error: %v", err)
	}
	if err := trk.AdminDelete(ctx, rec.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second AdminDelete = %v, want ErrSessionNotFound", err)
	}
}

func TestConflictRetriedOnce(t *testing.T) {
	trk, repo, clock := newTestTracker()
	ctx := context.Background()

	if _, err := trk.ClockIn(ctx, userAlice); err != nil {
		t.Fatalf("ClockIn error: %v", err)
	}
	clock.Advance(time.Hour)

	trk.repo = &conflictOnceRepo{Repository: repo}
	rec, err := trk.StartBreak(ctx, userAlice)
	if err != nil {
		t.Fatalf("StartBreak should succeed after one retry, got %v", err)
	}
	if !rec.IsOnBreak() {
		t.Fatalf("break not recorded after retry")
	}
	if len(rec.Breaks) != 1 {
		t.Fatalf("retry must not double-append: got %d breaks", len(rec.Breaks))
	}
}
