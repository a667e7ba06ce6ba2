package pipeline

import "fmt"

// DecodeError reports input bytes that no registered image decoder accepts.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports a failure to serialize the sketch as PNG or to write
// it out.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode png: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
