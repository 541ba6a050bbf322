package submission

import "errors"

var (
	IntegrationNotConfiguredErr = errors.New("form is not connected to a synced remote form")
	AlreadySubscribedErr        = errors.New("recipient is already subscribed")
	NoValidTokenErr             = errors.New("no valid access token for the remote call")
	RemoteUpsertFailedErr       = errors.New("storing the recipient remotely failed")
	EmailFailedErr              = errors.New("notification email could not be sent")
)
