// Package envvault manages .env files and the environment variables they
// define, locally and in S3-compatible object storage.
//
// A DotEnv is a live view over the process environment: setting or deleting
// a variable writes through to os.Setenv and os.Unsetenv, so values read by
// the rest of the process stay in sync with the container. Files move in and
// out with LoadDotenv, DumpDotenv, and FindDotenv, and to and from object
// storage with LoadDotenvFromStorage and DumpDotenvToStorage backed by
// the objectstorage client.
package envvault
