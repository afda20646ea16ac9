package envvault

import "errors"

var (
	// ErrInvalidAssignment indicates input that does not form a KEY=value
	// assignment.
	ErrInvalidAssignment = errors.New("invalid environment variable assignment")

	// ErrVariableNotSet indicates a variable absent from the container.
	ErrVariableNotSet = errors.New("environment variable not set")

	// ErrDotenvNotFound indicates no dotenv file was found between the
	// working directory and the filesystem root.
	ErrDotenvNotFound = errors.New("dotenv file not found")
)
