package report

import "errors"

var ErrNotFound = errors.New("report not found")
