package registry

import "errors"

// Configuration errors. All are fatal at startup: a router with a broken
// agent catalog must not serve traffic.
var (
	ErrEmptyRegistry       = errors.New("agent registry is empty")
	ErrDuplicateAgentID    = errors.New("duplicate agent id in registry")
	ErrReservedAgentID     = errors.New("agent id is reserved")
	ErrDefaultAgentUnknown = errors.New("default agent id is not registered")
)
