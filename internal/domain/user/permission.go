package user

type Permission string

const (
	// Leave Management
	PermissionLeaveRequest   Permission = "leave:request"
	PermissionLeaveViewOwn   Permission = "leave:view_own"
	PermissionLeaveCancelOwn Permission = "leave:cancel_own"
	PermissionLeaveViewAll   Permission = "leave:view_all"
	PermissionLeaveDecide    Permission = "leave:decide"

	// Attendance Management
	PermissionAttendanceSelf    Permission = "attendance:self"
	PermissionAttendanceViewAll Permission = "attendance:view_all"
	PermissionAttendanceMark    Permission = "attendance:mark"
	PermissionAttendanceReport  Permission = "attendance:report"

	// Payroll
	PermissionPayrollViewOwn Permission = "payroll:view_own"
	PermissionPayrollManage  Permission = "payroll:manage"
	PermissionPayrollDelete  Permission = "payroll:delete"

	// Notifications
	PermissionNotificationViewOwn Permission = "notification:view_own"

	// User Management
	PermissionUserManage Permission = "user:manage"
)

var employeePermissions = []Permission{
	PermissionLeaveRequest,
	PermissionLeaveViewOwn,
	PermissionLeaveCancelOwn,
	PermissionAttendanceSelf,
	PermissionPayrollViewOwn,
	PermissionNotificationViewOwn,
}

var hrPermissions = append(append([]Permission{}, employeePermissions...),
	PermissionLeaveViewAll,
	PermissionLeaveDecide,
	PermissionAttendanceViewAll,
	PermissionAttendanceMark,
	PermissionAttendanceReport,
	PermissionPayrollManage,
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: employeePermissions,
	RoleHR:       hrPermissions,
	RoleAdmin: append(append([]Permission{}, hrPermissions...),
		PermissionPayrollDelete,
		PermissionUserManage,
	),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
