package domain

import "errors"

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrRunNotFound       = errors.New("analysis run not found")
	ErrNoChartData       = errors.New("no data to chart")
	ErrUnknownChart      = errors.New("unknown chart kind")
	ErrInvalidArgument   = errors.New("invalid argument")
)
