package domain

import "errors"

var (
	ErrInvalidModID        = errors.New("could not extract mod ID")
	ErrModInfoFetch        = errors.New("fetching mod info failed")
	ErrVersionNotFound     = errors.New("requested version not found")
	ErrNoCompatibleRelease = errors.New("no compatible release found")
	ErrDownloadFailed      = errors.New("download failed")
	ErrWriteFailed         = errors.New("writing mod file failed")
)
