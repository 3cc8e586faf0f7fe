package submission

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("submission not found")
	ErrInvalidInput = errors.New("invalid submission data")
)

// ConflictError возвращается, когда base_version отправки отстала от
// серверной версии сущности. Current несет актуальную серверную копию,
// которая уходит клиенту в теле ответа 409.
type ConflictError struct {
	Current *Submission
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: entity %s changed on server, current version %d",
		e.Current.EntityKey, e.Current.Version)
}
