package domain

// Permission is the user's decision about notifications.
type Permission string

const (
	PermissionDefault Permission = "default" // not asked yet
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps a stored value back to a Permission. Anything
// unrecognised is treated as undecided.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// Notification is what a Presenter shows.
type Notification struct {
	Title string
	Body  string
	Tag   string // presentations sharing a tag replace each other
	// Silent suppresses the platform's default notification sound.
	Silent bool
	// OnActivate runs when the user clicks the notification. May be nil.
	OnActivate func()
}
