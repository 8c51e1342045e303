package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// LoadEnvFile reads a .env file and returns key-value pairs.
// Missing files return an empty map and no error.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()
	env, err := ParseEnvVars(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// ParseEnvVars reads NAME=value lines. Blank lines and lines starting with # are skipped,
// an "export " prefix is allowed, and values may be single or double quoted.
// An unquoted value ends at " #". Malformed lines are reported with their line number.
func ParseEnvVars(r io.Reader) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, val, err := parseEnvLine(strings.TrimPrefix(line, "export "))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		env[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return env, nil
}

func parseEnvLine(line string) (string, string, error) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", fmt.Errorf("expected NAME=value, got %q", line)
	}
	key = strings.TrimSpace(key)
	if !isEnvName(key) {
		return "", "", fmt.Errorf("invalid variable name %q", key)
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return key, "", nil
	}
	switch q := val[0]; q {
	case '"', '\'':
		end := strings.IndexByte(val[1:], q)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quote in value of %s", key)
		}
		rest := strings.TrimSpace(val[end+2:])
		if rest != "" && rest[0] != '#' {
			return "", "", fmt.Errorf("unexpected text after quoted value of %s", key)
		}
		return key, val[1 : end+1], nil
	}
	if i := strings.Index(val, " #"); i >= 0 {
		val = strings.TrimSpace(val[:i])
	}
	return key, val, nil
}

func isEnvName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ApplyEnv sets every variable that is not already present in the process environment.
func ApplyEnv(env map[string]string) error {
	for k, v := range env {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}
