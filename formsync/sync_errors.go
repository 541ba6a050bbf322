package formsync

import "errors"

var (
	MissingFormSelectionErr = errors.New("no existing form selected")
	GroupCreationFailedErr  = errors.New("remote group creation failed")
	FormCreationFailedErr   = errors.New("remote form creation failed")
	GroupLinkMissingErr     = errors.New("remote form carries no group link")
	GroupNotFoundErr        = errors.New("remote group not found")
	GroupInaccessibleErr    = errors.New("remote group inaccessible")
)
