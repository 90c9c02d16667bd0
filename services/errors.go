package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("customer already has a survey token")
	ErrAlreadyCompleted   = errors.New("survey already completed")
	ErrSessionUnavailable = errors.New("token invalid or survey already answered")
	ErrValidation         = errors.New("validation failed")
	ErrEmptyCatalog       = errors.New("no questions configured")
	ErrNoPendingCustomers = errors.New("no customers pending a survey link")
)

// StorageError bọc lỗi tầng lưu trữ. Phía HTTP chỉ trả lỗi chung, không lộ Err.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
