package importer

import "errors"

// Causes of a failed import, for use with errors.Is
var (
	ErrDesignTooLarge      = errors.New("design too large")
	ErrUnexpectedLayer     = errors.New("unexpected layer type in layer stack")
	ErrUnknownLayerType    = errors.New("unknown layer type")
	ErrUnknownLayerSubtype = errors.New("unknown layer subtype")
	ErrTooManyCopperLayers = errors.New("too many copper layers")
	ErrNoElectricalLayers  = errors.New("layer stack has no electrical layers")
	ErrShapeNotSupported   = errors.New("shape type not supported")
)

// IOError is a fatal import failure. Problem is the user-facing message;
// Err is the sentinel cause.
type IOError struct {
	Problem string
	Err     error
}

func (e *IOError) Error() string {
	return e.Problem
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioError(cause error, problem string) error {
	return &IOError{Problem: problem, Err: cause}
}
