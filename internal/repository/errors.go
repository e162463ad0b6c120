package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Common repository errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBoardNotFound      = errors.New("board not found")
	ErrColumnNotFound     = errors.New("column not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("already exists")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func translate(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
