package provider

import (
	"fmt"
)

const (
	excerptPrefix = 32
	excerptSuffix = 16
)

// DataError reports malformed bytes: a frame header that does not parse, a
// checksum mismatch or a region too short to hold a buffer.
//
// The offending region may be a memory mapping that is gone by the time the
// error is printed, so only a copied excerpt of it is kept.
type DataError struct {
	// Data holds up to the first 32 and last 16 bytes of the region.
	Data []byte
	// Size is the length of the whole region.
	Size int
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{
		Data: excerpt(data),
		Size: len(data),
		Off:  off,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func excerpt(data []byte) []byte {
	if len(data) <= excerptPrefix+excerptSuffix {
		return append([]byte(nil), data...)
	}
	out := make([]byte, 0, excerptPrefix+excerptSuffix)
	out = append(out, data[:excerptPrefix]...)
	return append(out, data[len(data)-excerptSuffix:]...)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	var ex string
	if e.Size <= excerptPrefix+excerptSuffix || len(e.Data) < excerptPrefix {
		ex = fmt.Sprintf("(%d) %x", e.Size, e.Data)
	} else {
		ex = fmt.Sprintf("(%d) %x...%x", e.Size, e.Data[:excerptPrefix], e.Data[excerptPrefix:])
	}
	if e.Err != nil {
		return fmt.Sprintf("%s at %d: %v: %s", e.Msg, e.Off, e.Err, ex)
	}
	return fmt.Sprintf("%s at %d: %s", e.Msg, e.Off, ex)
}
