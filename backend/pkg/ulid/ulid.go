package ulid

import (
	crand "crypto/rand"
	"strings"

	"github.com/oklog/ulid"
)

// `I` is an `oklog/ulid.ULID`.
type I = ulid.ULID

var Parse = ulid.Parse

func New() (I, error) {
	return ulid.New(ulid.Now(), crand.Reader)
}

// `NewSuffix()` returns a lowercase ULID that sorts by creation time.  It is
// used to derive names of intermediate files next to a path.
func NewSuffix() (string, error) {
	id, err := New()
	if err != nil {
		return "", err
	}
	return strings.ToLower(id.String()), nil
}
