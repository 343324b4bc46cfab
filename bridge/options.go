package bridge

import (
	"time"

	"github.com/mwantia/s3fs/log"
	"github.com/mwantia/s3fs/telemetry"
)

type Options struct {
	Timeout  time.Duration
	Logger   *log.Logger
	Recorder *telemetry.Recorder
}

type Option func(*Options)

func newDefaultOptions() *Options {
	return &Options{
		Timeout:  DefaultTimeout,
		Logger:   log.Discard(),
		Recorder: telemetry.Noop(),
	}
}

// WithTimeout sets the maximum time a call blocks; non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(o *Options) {
		if recorder != nil {
			o.Recorder = recorder
		}
	}
}
