package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key ("app.env", "store.url").
// Missing keys yield the zero value.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetInt(key string) int
	GetString(key string) string
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetArray reads a comma separated list, dropping blank elements.
	GetArray(key string) []string
}
