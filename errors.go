package cpix

import "errors"

var (
	ErrBadMagic           = errors.New("cpix: bad magic word")
	ErrBadDimensions      = errors.New("cpix: image dimensions below tile size or not tile-aligned")
	ErrTruncatedData      = errors.New("cpix: truncated data")
	ErrInvalidCodeLengths = errors.New("cpix: invalid Huffman code lengths")
	ErrBadFilterID        = errors.New("cpix: filter id out of range")
	ErrDesync             = errors.New("cpix: desync check mismatch")
)
