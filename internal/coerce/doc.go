// Package coerce turns raw configuration strings into typed values and back.
// A value is always one of: nil, int64, bool, string or []string.
package coerce
