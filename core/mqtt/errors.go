package mqtt

import "errors"

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt not connected")
