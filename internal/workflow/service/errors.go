package service

import (
	"errors"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// asAppError passes typed engine errors through and wraps anything else
// (driver errors, commit failures) as a StorageError.
func asAppError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.NewStorageError(op, err)
}
