package envvault

import (
	"context"
	"fmt"

	"github.com/envvault/envvault/pkg/envvault/objectstorage"
)

// LoadDotenvFromStorage downloads the dotenv object at key and parses it
// into a new DotEnv, setting the variables in the process environment.
func LoadDotenvFromStorage(ctx context.Context, client *objectstorage.Client, key string) (*DotEnv, error) {
	body, err := client.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	d, err := ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

// DumpDotenvToStorage serializes the DotEnv and uploads it to key.
func DumpDotenvToStorage(ctx context.Context, client *objectstorage.Client, key string, d *DotEnv) error {
	return client.Upload(ctx, key, []byte(d.String()), nil)
}
