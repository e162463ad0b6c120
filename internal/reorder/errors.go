package reorder

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the item, the target container or the anchor sibling
	// no longer exists. Nothing was written.
	ErrNotFound = errors.New("item or container no longer exists")

	// ErrConflict means the target container changed between reading its
	// siblings and writing the new position. Nothing was written.
	ErrConflict = errors.New("container changed concurrently")

	// ErrStale is a conflict against the snapshot the client sent (expected
	// revision or current container). Retrying cannot fix it.
	ErrStale = fmt.Errorf("%w: client view is stale", ErrConflict)

	// ErrInvalidAnchor means the drop point cannot be interpreted.
	ErrInvalidAnchor = errors.New("invalid drop anchor")
)

// translate maps database failures caused by concurrent writers onto the
// move errors. A foreign key violation means the target was deleted under
// us; deadlocks and serialization failures are lost races worth a retry.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
	case pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure:
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
	}
	return err
}
