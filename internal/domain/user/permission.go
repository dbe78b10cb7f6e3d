package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Corrections
	PermissionCorrectionCreate  Permission = "correction.create"
	PermissionCorrectionDecide  Permission = "correction.decide"
	PermissionCorrectionViewAll Permission = "correction.view_all"

	// Leave
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"

	// Policy
	PermissionPolicyView   Permission = "policy.view"
	PermissionPolicyManage Permission = "policy.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceClock,
		PermissionAttendanceViewAll,
		PermissionCorrectionCreate,
		PermissionCorrectionDecide,
		PermissionCorrectionViewAll,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionPolicyView,
		PermissionPolicyManage,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceClock,
		PermissionAttendanceViewAll,
		PermissionCorrectionCreate,
		PermissionCorrectionDecide,
		PermissionCorrectionViewAll,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionPolicyView,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceClock,
		PermissionCorrectionCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionPolicyView,
	},
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
