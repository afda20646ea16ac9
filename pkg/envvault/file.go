package envvault

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parse reads dotenv lines from r into a new DotEnv. Blank lines and lines
// starting with '#' are skipped, an "export " prefix is tolerated, and
// values are stripped of surrounding whitespace and quotes. Parsed
// variables are set in the process environment, like any other DotEnv
// mutation.
func Parse(r io.Reader) (*DotEnv, error) {
	d, _ := NewDotEnv()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrInvalidAssignment, line)
		}
		if err := d.Set(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseString parses dotenv file content from a string.
func ParseString(content string) (*DotEnv, error) {
	return Parse(strings.NewReader(content))
}

// LoadDotenv reads the dotenv file at path into a new DotEnv.
func LoadDotenv(path string) (*DotEnv, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// DumpDotenv writes the DotEnv to path as sorted KEY=value lines. The file
// is created with mode 0600; dotenv files routinely hold secrets.
func DumpDotenv(d *DotEnv, path string) error {
	return os.WriteFile(path, []byte(d.String()), 0o600)
}

// DotenvValues reads the dotenv file at path and returns its variables as a
// map.
func DotenvValues(path string) (map[string]string, error) {
	d, err := LoadDotenv(path)
	if err != nil {
		return nil, err
	}
	return d.Values(), nil
}

// FindDotenv walks from the working directory toward the filesystem root
// looking for a file with the given name, returning its absolute path. A
// filename like ".env" is typical. Returns ErrDotenvNotFound when no
// directory on the way up contains the file.
func FindDotenv(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrDotenvNotFound, filename)
		}
		dir = parent
	}
}
