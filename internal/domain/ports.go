package domain

import "context"

// MedicineStore persists the full medicine list as one unit. Load never
// fails: a missing or unreadable record is an empty list.
type MedicineStore interface {
	Load(ctx context.Context) []Medicine
	Save(ctx context.Context, meds []Medicine) error
}

// PermissionStore remembers the user's notification decision.
type PermissionStore interface {
	LoadPermission(ctx context.Context) Permission
	SavePermission(ctx context.Context, p Permission) error
}

// Presenter shows a system notification. Implementations can post to the
// desktop notification daemon or print to the terminal.
type Presenter interface {
	Present(ctx context.Context, n Notification) error
}

// Cue is a best-effort sensory signal: a beep, a bell, a buzz.
type Cue interface {
	Play(ctx context.Context) error
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// IntentParser turns a line typed at the interactive prompt into an intent.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
