package distributions

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres insufficient_privilege.
const sqlstatePermissionDenied = "42501"

// IsPermissionDenied reports whether the remote store rejected the operation
// for lack of privileges, which is the only failure the ledger degrades to
// its local cache for. Anything else propagates to the caller.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstatePermissionDenied
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "insufficient privilege")
}
