package auth

import "errors"

var errMissingBearer = errors.New("authorization header is not a bearer token")
