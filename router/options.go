package router

import (
	"github.com/mwantia/s3fs/log"
	"github.com/mwantia/s3fs/telemetry"
)

type RouterOptions struct {
	Logger      *log.Logger
	Recorder    *telemetry.Recorder
	Classifiers []Classifier
}

type RouterOption func(*RouterOptions)

func newDefaultRouterOptions() *RouterOptions {
	return &RouterOptions{
		Logger:      log.Discard(),
		Recorder:    telemetry.Noop(),
		Classifiers: []Classifier{FetchCache, ImageCache},
	}
}

func WithLogger(logger *log.Logger) RouterOption {
	return func(opts *RouterOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithClassifiers replaces the default classifiers. The first match wins.
func WithClassifiers(classifiers ...Classifier) RouterOption {
	return func(opts *RouterOptions) {
		opts.Classifiers = classifiers
	}
}

func WithRecorder(recorder *telemetry.Recorder) RouterOption {
	return func(opts *RouterOptions) {
		if recorder != nil {
			opts.Recorder = recorder
		}
	}
}
