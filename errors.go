package bloom

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every construction-time error via errors.Is.
var ErrConfiguration = errors.New("bloom: invalid configuration")

var (
	ErrBadExpectedElements  = errors.New("bloom: expected elements must be positive")
	ErrBadFalsePositiveRate = errors.New("bloom: false positive rate must be in (0, 1)")
	ErrBadSize              = errors.New("bloom: filter size must be positive")
	ErrSizeOverflow         = errors.New("bloom: filter size overflows supported range")
	ErrBadHashCount         = errors.New("bloom: hash count must be at least 1")
)

// ConfigError reports which parameter was rejected and why.
//
// errors.Is(err, ErrConfiguration) is true for every ConfigError; the
// specific reason is available through errors.Is / errors.Unwrap.
type ConfigError struct {
	Param string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v (%s=%v)", e.Err, e.Param, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configErr(param string, value any, err error) error {
	return &ConfigError{Param: param, Value: value, Err: err}
}
