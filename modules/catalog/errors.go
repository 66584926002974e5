package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLogPath    = errors.New("catalog: empty notification log path")
	ErrNotificationLog = errors.New("catalog: failed to write notification log")
	ErrNoNotifier      = errors.New("catalog: notifier is required")
)

// UnicornError is raised by GET /unicorns/{name} and answered with 418.
type UnicornError struct {
	Name string
}

func (e *UnicornError) Error() string {
	return fmt.Sprintf("unicorn %q misbehaved", e.Name)
}
