package main

import (
	"github.com/envvault/envvault/pkg/envvault/objectkey"
	"github.com/envvault/envvault/pkg/envvault/objectstorage"
)

// newStorageClient builds the storage client from settings plus the AWS
// environment variables.
func newStorageClient(settings *Settings) (*objectstorage.Client, error) {
	var opts []objectstorage.ConfigOption
	if settings.BucketHost != "" {
		opts = append(opts, objectstorage.WithBucketHost(settings.BucketHost))
	}
	if settings.BucketName != "" {
		opts = append(opts, objectstorage.WithBucketName(settings.BucketName))
	}
	cfg, err := objectstorage.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return objectstorage.NewClient(cfg, objectstorage.WithLogger(newLogger(settings)))
}

// storageKey is the current-state object key for the configured app and
// stage.
func storageKey(settings *Settings) string {
	gen := objectkey.NewFlatGenerator()
	return gen.GenerateKey(&objectkey.KeyMetadata{
		App:      settings.App,
		Stage:    settings.Stage,
		FileName: settings.File,
	})
}

// historyKey is a unique sharded key preserving this upload alongside
// earlier snapshots.
func historyKey(settings *Settings) string {
	gen := objectkey.NewHistoryGenerator()
	return gen.GenerateKey(&objectkey.KeyMetadata{
		App:      settings.App,
		Stage:    settings.Stage,
		FileName: settings.File,
	})
}
