package ingest

import "errors"

var (
	// ErrStoreImage indicates fetching or uploading the bill image failed.
	// No notification is sent when this is returned.
	ErrStoreImage = errors.New("store bill image")
	// ErrNotifyUser indicates the image was stored but the follow-up
	// message could not be delivered.
	ErrNotifyUser = errors.New("notify user")
)
