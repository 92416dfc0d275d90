package leave

import (
	"testing"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateLeaveRequestRequest
		wantField string
	}{
		{name: "valid range", req: CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "2024-03-01", EndDate: "2024-03-03"}},
		{name: "single day", req: CreateLeaveRequestRequest{LeaveType: "SICK", StartDate: "2024-03-01", EndDate: "2024-03-01"}},
		{name: "end before start", req: CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "2024-03-03", EndDate: "2024-03-01"}, wantField: "end_date"},
		{name: "unknown type", req: CreateLeaveRequestRequest{LeaveType: "VACATION", StartDate: "2024-03-01", EndDate: "2024-03-01"}, wantField: "leave_type"},
		{name: "bad date", req: CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "01-03-2024", EndDate: "2024-03-01"}, wantField: "start_date"},
		{name: "missing end", req: CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "2024-03-01"}, wantField: "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve validator.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.ToMap(), tt.wantField)
		})
	}
}

func TestCreateLeaveRequestRequest_EndBeforeStartMessage(t *testing.T) {
	req := CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "2024-03-03", EndDate: "2024-03-01"}
	var ve validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &ve)
	assert.Equal(t, "end date must be after start date", ve.ToMap()["end_date"])
}

func TestCreateLeaveRequestRequest_MaxSpan(t *testing.T) {
	fullLeapYear := CreateLeaveRequestRequest{LeaveType: "UNPAID", StartDate: "2024-01-01", EndDate: "2024-12-31"}
	assert.NoError(t, fullLeapYear.Validate())

	tooLong := CreateLeaveRequestRequest{LeaveType: "UNPAID", StartDate: "2024-01-01", EndDate: "2025-01-01"}
	var ve validator.ValidationErrors
	require.ErrorAs(t, tooLong.Validate(), &ve)
	assert.Equal(t, "leave cannot span more than 366 days", ve.ToMap()["end_date"])

	absurd := CreateLeaveRequestRequest{LeaveType: "PAID", StartDate: "2000-01-01", EndDate: "9999-12-31"}
	require.ErrorAs(t, absurd.Validate(), &ve)
}

func TestLeaveRequestFilter_Validate(t *testing.T) {
	status := "PENDING"
	f := LeaveRequestFilter{Status: &status}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)

	bad := "DONE"
	assert.Error(t, (&LeaveRequestFilter{Status: &bad}).Validate())
	assert.Error(t, (&LeaveRequestFilter{LeaveType: &bad}).Validate())
}

func TestLeaveRequest_Days(t *testing.T) {
	req := CreateLeaveRequestRequest{StartDate: "2024-03-01", EndDate: "2024-03-03"}
	start, end, err := req.Range()
	require.NoError(t, err)

	days := LeaveRequest{StartDate: start, EndDate: end}.Days()
	require.Len(t, days, 3)
	assert.Equal(t, start, days[0])
	assert.Equal(t, end, days[2])
}
