package errcodes

import "errors"

var (
	ErrProjectAndAllConflict = errors.New("cannot combine --project with --all")
	ErrInvalidDate           = errors.New("dates must be in the form YYYY-MM-DD")
	ErrDateRangeInverted     = errors.New("--created-after must not be later than --created-before")
	ErrInvalidInterval       = errors.New("--interval is shorter than a single refresh may take")
	ErrNoProjectSelected     = errors.New("no project selected")
)
