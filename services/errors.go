package services

import (
	"errors"

	"github.com/jackc/pgconn"
)

var (
	ErrListNotFound       = errors.New("list not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrShareNotFound      = errors.New("share not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyShared      = errors.New("list already shared with this user")
	ErrForbidden          = errors.New("insufficient permission on list")
	ErrInvalidPermission  = errors.New("permission must be view or edit")
	ErrSelfShare          = errors.New("cannot share a list with its owner")
	ErrListArchived       = errors.New("list is archived")
	ErrEmailTaken         = errors.New("email or username already registered")
	ErrInvalidUsername    = errors.New("username must not contain @")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
