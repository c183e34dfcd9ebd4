package domain

import "errors"

var (
	// ErrInvalidThreshold is returned when the similarity threshold is outside [0,1]
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")

	// ErrInvalidTolerance is returned when the weight tolerance is outside (0,1]
	ErrInvalidTolerance = errors.New("weight tolerance must be between 0 and 1")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrMissingColumn is returned when a required input column is absent
	ErrMissingColumn = errors.New("required column missing from input")
)
