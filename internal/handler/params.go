package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// requestValidator plugs validate tags into echo's c.Validate
type requestValidator struct {
	v *validator.Validate
}

func (r *requestValidator) Validate(i interface{}) error {
	return r.v.Struct(i)
}

func validWebURL(raw string) bool {
	return validate.Var(raw, "http_url") == nil
}

// parseTimeParam accepts RFC3339 or a bare date. A bare date used as an
// upper bound covers that whole day.
func parseTimeParam(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%q is neither RFC3339 nor YYYY-MM-DD", raw)
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
