package config

import (
	"os"
	"strconv"
	"strings"
)

// New snapshots the process environment into a plain map. Server setup reads
// from the snapshot rather than os.Getenv so a single capture at startup
// decides every value.
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value := splitEntry(entry)
		envAsMap[key] = value
	}
	return envAsMap
}

// splitEntry splits a KEY=VALUE environ entry; the value may itself contain
// '=' characters.
func splitEntry(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// GetString returns the value for key, or defaultValue when the key is absent.
func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns the value for key parsed as an integer. Absent or unparsable
// values yield defaultValue.
func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return asInt
}
