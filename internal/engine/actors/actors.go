package actors

import (
	"errors"

	"waterhole/internal/utils"
)

// asAppError passes typed application errors through unchanged and wraps
// anything else as a record-store failure, so actor responses always carry a
// code the HTTP layer can map.
func asAppError(err error, what string) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.NewAppError(utils.ErrRemoteRejected, what+" operation failed", err)
}
