package internal

const (
	AppName = "crf"

	// TasksFile is the optional per-project file defining extra targets
	// and settings overrides.
	TasksFile = "tasks.star"

	// CacheDir holds per-target state such as input checksums.
	CacheDir = ".crf"
)
