package sqlxrepos

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// idArray adapts a slice of UUID strings for postgres array operators
// (= ANY(..), <> ALL(..)).
func idArray(ids []string) driver.Valuer {
	return pq.Array(ids)
}
