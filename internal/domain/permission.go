package domain

// Permission mirrors the desktop notification permission states.
type Permission string

const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

func (p Permission) String() string {
	return string(p)
}

// IsDecided reports whether the user already answered the permission prompt.
func (p Permission) IsDecided() bool {
	return p == PermissionGranted || p == PermissionDenied
}

func (p Permission) IsGranted() bool {
	return p == PermissionGranted
}

// ParsePermission maps a stored value back to a Permission, falling back to default.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted, PermissionDenied, PermissionUnsupported:
		return Permission(s)
	default:
		return PermissionDefault
	}
}
