package envvault

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// DotEnv is a mutable set of environment variables that writes through to
// the process environment: Set calls os.Setenv and Delete calls os.Unsetenv,
// keeping os.Getenv consistent with the container. Keys are normalized to
// upper case and values are stripped of surrounding whitespace and quotes.
//
// A DotEnv is not safe for concurrent mutation.
type DotEnv struct {
	values map[string]string
}

// NewDotEnv creates a DotEnv, applying any given assignment strings in
// order. Each string holds whitespace-separated KEY=value assignments, as
// accepted by SetString.
func NewDotEnv(assignments ...string) (*DotEnv, error) {
	d := &DotEnv{values: make(map[string]string)}
	for _, a := range assignments {
		if err := d.SetString(a); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

func normalizeValue(value string) string {
	return strings.Trim(value, " \"'")
}

// Get returns the value of key, or ErrVariableNotSet.
func (d *DotEnv) Get(key string) (string, error) {
	value, ok := d.values[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrVariableNotSet, normalizeKey(key))
	}
	return value, nil
}

// GetDefault returns the value of key, or fallback when it is not set.
func (d *DotEnv) GetDefault(key, fallback string) string {
	if value, ok := d.values[normalizeKey(key)]; ok {
		return value
	}
	return fallback
}

// Has reports whether key is set.
func (d *DotEnv) Has(key string) bool {
	_, ok := d.values[normalizeKey(key)]
	return ok
}

// Set stores key=value in the container and the process environment.
func (d *DotEnv) Set(key, value string) error {
	k := normalizeKey(key)
	if k == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidAssignment)
	}
	v := normalizeValue(value)
	if err := os.Setenv(k, v); err != nil {
		return err
	}
	d.values[k] = v
	return nil
}

// SetString applies whitespace-separated KEY=value assignments, e.g.
// "APP_ENV=dev DEBUG=true". On each line, a token starting with '#' begins
// a comment that runs to the end of the line.
func (d *DotEnv) SetString(assignments string) error {
	for _, line := range strings.Split(assignments, "\n") {
		for _, token := range strings.Fields(line) {
			if strings.HasPrefix(token, "#") {
				break
			}
			key, value, ok := strings.Cut(token, "=")
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidAssignment, token)
			}
			if err := d.Set(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes the given keys from the container and the process
// environment. Keys that are not set are skipped.
func (d *DotEnv) Delete(keys ...string) error {
	for _, key := range keys {
		k := normalizeKey(key)
		if _, ok := d.values[k]; !ok {
			continue
		}
		if err := os.Unsetenv(k); err != nil {
			return err
		}
		delete(d.values, k)
	}
	return nil
}

// Keys returns the variable names in sorted order.
func (d *DotEnv) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of variables.
func (d *DotEnv) Len() int {
	return len(d.values)
}

// Values returns a copy of the variables as a map.
func (d *DotEnv) Values() map[string]string {
	values := make(map[string]string, len(d.values))
	for k, v := range d.values {
		values[k] = v
	}
	return values
}

// String serializes the variables as sorted KEY=value lines, the dotenv
// file format written by DumpDotenv.
func (d *DotEnv) String() string {
	var b strings.Builder
	for _, key := range d.Keys() {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(d.values[key])
		b.WriteByte('\n')
	}
	return b.String()
}
