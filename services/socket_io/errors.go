package socket_io

import "errors"

var (
	errMissingAuth   = errors.New("Authentication data missing")
	errMissingUserID = errors.New("userId not found in authentication")
)
