package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all given errors into a single error instance. Nil
// values are ignored and nil is returned if no error is left. Errors created
// by Append are flattened.
//
// The ABCI code of the result is the code of the first error, so a client
// sees the same code as with a fail-fast validation.
func Append(errs ...error) error {
	var all []error
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if u, ok := err.(unpacker); ok {
			all = append(all, u.Unpack()...)
		} else {
			all = append(all, err)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return multiErr(all)
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(points, "\n\t"))
}

// Cause returns the first error.
func (errs multiErr) Cause() error {
	return errs[0]
}

// Unpack returns all clubbed errors.
func (errs multiErr) Unpack() []error {
	return errs
}

var _ causer = multiErr(nil)
var _ unpacker = multiErr(nil)

// unpacker is implemented by an error that groups several errors.
type unpacker interface {
	Unpack() []error
}
