package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/attendance"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dayKey struct {
	userID string
	date   time.Time
}

type fakeAttendanceRepository struct {
	mu       sync.Mutex
	records  map[dayKey]attendance.Attendance
	upserts  int
	failDays map[time.Time]bool
	stats    []attendance.UserStats
}

func newFakeAttendanceRepository() *fakeAttendanceRepository {
	return &fakeAttendanceRepository{records: make(map[dayKey]attendance.Attendance)}
}

func (f *fakeAttendanceRepository) GetByUserAndDate(_ context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.records[dayKey{userID, date}]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (f *fakeAttendanceRepository) UpsertDay(_ context.Context, userID string, date time.Time, patch attendance.Patch) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDays[date] {
		return attendance.Attendance{}, errors.New("write failed")
	}
	f.upserts++
	key := dayKey{userID, date}
	a, ok := f.records[key]
	if !ok {
		a = attendance.Attendance{ID: date.Format(time.DateOnly), UserID: userID, Date: date, Status: attendance.StatusAbsent}
	}
	patch.Apply(&a)
	f.records[key] = a
	return a, nil
}

func (f *fakeAttendanceRepository) UpsertDays(ctx context.Context, userID string, days []time.Time, patch attendance.Patch) error {
	for _, d := range days {
		if _, err := f.UpsertDay(ctx, userID, d, patch); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAttendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for k, a := range f.records {
		if k.userID != filter.UserID {
			continue
		}
		if filter.StartDate != nil && a.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && a.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepository) StatusSummary(_ context.Context, _, _ *time.Time) ([]attendance.StatusSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[attendance.Status]int64{}
	for _, a := range f.records {
		counts[a.Status]++
	}
	var out []attendance.StatusSummary
	for s, c := range counts {
		out = append(out, attendance.StatusSummary{Status: s, Count: c})
	}
	return out, nil
}

func (f *fakeAttendanceRepository) UserStats(_ context.Context, _, _ *time.Time) ([]attendance.UserStats, error) {
	return f.stats, nil
}

type fakeUserRepository struct {
	users map[string]user.User
}

func (f *fakeUserRepository) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (f *fakeUserRepository) UpdateRole(context.Context, string, user.Role) error {
	return nil
}

var (
	employee = user.Principal{UserID: "emp-1", Email: "emp@example.com", Role: user.RoleEmployee}
	hr       = user.Principal{UserID: "hr-1", Email: "hr@example.com", Role: user.RoleHR}
)

func newTestService(repo *fakeAttendanceRepository, now time.Time) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		users:                &fakeUserRepository{users: map[string]user.User{"emp-1": {ID: "emp-1"}}},
		loc:                  time.UTC,
		now:                  func() time.Time { return now },
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestCheckInCheckOut(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.CheckOut(ctx, employee)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	in, err := svc.CheckIn(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, "09:00:00", *in.CheckIn)
	assert.Equal(t, "PRESENT", in.Status)

	_, err = svc.CheckIn(ctx, employee)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC) }
	out, err := svc.CheckOut(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, "17:30:00", *out.CheckOut)
	assert.Equal(t, "09:00:00", *out.CheckIn)
	require.NotNil(t, out.TotalHours)
	assert.InDelta(t, 8.5, *out.TotalHours, 0.001)

	_, err = svc.CheckOut(ctx, employee)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckIn_UsesConfiguredTimezone(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	svc.loc = time.FixedZone("UTC+5", 5*60*60)

	in, err := svc.CheckIn(context.Background(), employee)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", in.Date)
	assert.Equal(t, "03:00:00", *in.CheckIn)
}

func TestCheckIn_OnLeaveDayWithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, svc.MarkLeave(ctx, employee.UserID, []time.Time{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}))

	in, err := svc.CheckIn(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, "PRESENT", in.Status)
}

func TestMarkLeave_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Now())

	days := []time.Time{
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.MarkLeave(ctx, employee.UserID, days))
	require.NoError(t, svc.MarkLeave(ctx, employee.UserID, days))

	assert.Len(t, repo.records, 3)
	for _, a := range repo.records {
		assert.Equal(t, attendance.StatusLeave, a.Status)
	}
	assert.NoError(t, svc.MarkLeave(ctx, employee.UserID, nil))
}

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Now())

	req := attendance.MarkAttendanceRequest{
		UserID:   "emp-1",
		Date:     "2025-03-10",
		Status:   "HALF_DAY",
		CheckIn:  ptr("09:00:00"),
		CheckOut: ptr("13:15:00"),
	}

	_, err := svc.MarkAttendance(ctx, employee, req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	assert.Zero(t, repo.upserts)

	got, err := svc.MarkAttendance(ctx, hr, req)
	require.NoError(t, err)
	assert.Equal(t, "HALF_DAY", got.Status)
	assert.InDelta(t, 4.25, *got.TotalHours, 0.001)

	req.UserID = "ghost"
	_, err = svc.MarkAttendance(ctx, hr, req)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	req.Status = "VACATION"
	_, err = svc.MarkAttendance(ctx, hr, req)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMarkAttendance_MergesStoredTimes(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Now())

	_, err := svc.MarkAttendance(ctx, hr, attendance.MarkAttendanceRequest{
		UserID: "emp-1", Date: "2025-03-10", Status: "PRESENT", CheckIn: ptr("09:00:00"),
	})
	require.NoError(t, err)

	got, err := svc.MarkAttendance(ctx, hr, attendance.MarkAttendanceRequest{
		UserID: "emp-1", Date: "2025-03-10", Status: "PRESENT", CheckOut: ptr("17:30:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, got.TotalHours)
	assert.InDelta(t, 8.5, *got.TotalHours, 0.001)

	upserts := repo.upserts
	_, err = svc.MarkAttendance(ctx, hr, attendance.MarkAttendanceRequest{
		UserID: "emp-1", Date: "2025-03-10", Status: "PRESENT", CheckOut: ptr("08:00:00"),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "must be after check_in", verrs.ToMap()["check_out"])
	assert.Equal(t, upserts, repo.upserts)
}

func TestListAttendance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Now())
	require.NoError(t, svc.MarkLeave(ctx, "emp-1", []time.Time{
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	}))

	mine, err := svc.ListMyAttendance(ctx, employee, attendance.ListAttendanceRequest{StartDate: "2025-03-11"})
	require.NoError(t, err)
	require.Len(t, mine.Attendances, 1)
	assert.Equal(t, "2025-03-11", mine.Attendances[0].Date)
	assert.EqualValues(t, 1, mine.Pagination.Total)

	_, err = svc.ListUserAttendance(ctx, employee, "emp-1", attendance.ListAttendanceRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	all, err := svc.ListUserAttendance(ctx, hr, "emp-1", attendance.ListAttendanceRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Attendances, 2)
	assert.Equal(t, "2025-03-11", all.Attendances[0].Date)

	_, err = svc.ListMyAttendance(ctx, employee, attendance.ListAttendanceRequest{StartDate: "2025-03-12", EndDate: "2025-03-01"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepository()
	repo.stats = []attendance.UserStats{{UserID: "emp-1", EmployeeID: "EMP001", TotalDays: 2, PresentDays: 1, AvgHours: 7.456}}
	svc := newTestService(repo, time.Now())
	require.NoError(t, svc.MarkLeave(ctx, "emp-1", []time.Time{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}))

	_, err := svc.GetReport(ctx, employee, attendance.ReportRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	report, err := svc.GetReport(ctx, hr, attendance.ReportRequest{StartDate: "2025-03-01"})
	require.NoError(t, err)
	require.NotNil(t, report.StartDate)
	assert.Equal(t, "2025-03-01", *report.StartDate)
	assert.Nil(t, report.EndDate)
	require.Len(t, report.StatusSummary, 1)
	assert.Equal(t, "LEAVE", report.StatusSummary[0].Status)
	require.Len(t, report.UserStats, 1)
	assert.Equal(t, 7.46, report.UserStats[0].AvgHours)
}

func ptr[T any](v T) *T { return &v }
