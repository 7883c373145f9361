package oss

import "errors"

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errAuthFailed           = errors.New("authentication failed")
	errNoToken              = errors.New("token not found in the API response")
	errSearchFailed         = errors.New("search request failed")
)
