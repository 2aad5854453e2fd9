package blender

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewKeyframes = errors.New("at least two keyframes are required")
	ErrNegativeCount   = errors.New("intermediate frame count must be >= 0")
	ErrUnknownOverride = errors.New("override does not match any keyframe id")
	ErrDuplicateID     = errors.New("duplicate keyframe id")
	ErrShapeMismatch   = errors.New("keyframe shape mismatch")
)

// ShapeError reports a keyframe whose dimensions or channel layout differ
// from the first keyframe.
type ShapeError struct {
	Path string
	Want Shape
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("keyframe %s has shape %s, but expected %s", e.Path, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// FrameError is a failure to write one output frame.
type FrameError struct {
	Frame int
	Path  string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("failed to save frame %d (%s): %v", e.Frame, e.Path, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
