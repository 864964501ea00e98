package tui

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")

// ErrMissingUploadService is returned when the upload service is not provided.
var ErrMissingUploadService = errors.New("tui: upload service is required")

// ErrMissingExchangeService is returned when the exchange service is not provided.
var ErrMissingExchangeService = errors.New("tui: exchange service is required")

// ErrMissingNavigationGuard is returned when the navigation guard is not provided.
var ErrMissingNavigationGuard = errors.New("tui: navigation guard is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
