package notification

import "islandeats/models"

// Messenger defines the outbound side of the messaging channel. Delivery is
// best-effort: implementations log failures and never surface them to the
// engine, so a slow or dead channel cannot stall a state transition.
type Messenger interface {
	SendToRequester(requesterID string, msg models.Message)
	SendToProvider(channelIdentity string, msg models.Message)
}
