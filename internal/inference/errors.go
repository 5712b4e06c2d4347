package inference

import "errors"

var (
	// ErrImageRead means the input path did not resolve to a decodable
	// raster image.
	ErrImageRead = errors.New("image not readable")

	// ErrInference means the detector call itself failed.
	ErrInference = errors.New("inference failed")

	// ErrEncode means the annotated frame could not be encoded or written.
	ErrEncode = errors.New("frame encode failed")
)
