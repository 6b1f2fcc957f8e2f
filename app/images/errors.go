package images

import "fmt"

// ImageError reports a candidate that could not be used as featured image.
type ImageError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("image %s: %s", e.URL, e.Reason)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
