package provider

import "errors"

var (
	ErrProviderInit    = errors.New("provider initialization failed")
	ErrProviderCall    = errors.New("provider call failed")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrEmptyResponse   = errors.New("provider returned empty response")
)
