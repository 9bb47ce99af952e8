// Package bind decodes a JSON request body into a struct and runs the
// struct's validation tags. Controllers use the two-return contract:
// a non-nil errs map is a 422, a non-nil err is a 400.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/pkg/validate"
)

const defaultBodyLimit = 4 << 20 // 4 MB

func bodyLimit() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyLimit
	}
	return n
}

// JSON decodes r.Body into dest, capped at MAX_BODY_BYTES, then
// validates it. Validation failures come back in errs; malformed or
// oversized bodies come back in err.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
