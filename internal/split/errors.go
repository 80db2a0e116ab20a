package split

import "fmt"

// DirectoryError reports that the output directory could not be created.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("could not create output directory %q: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }
