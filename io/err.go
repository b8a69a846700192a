package io

import (
	"errors"

	"github.com/ezrec/pipemachine/translate"
)

var f = translate.From

var (
	// Port errors
	ErrOutputMissing = errors.New(f("output missing"))
)
