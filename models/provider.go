package models

// ProviderRecord is one restaurant in the directory. ChannelIdentity is the
// LINE user ID the provider replies from; responses arriving from any other
// identity are rejected.
type ProviderRecord struct {
	ID               string `bson:"_id" json:"id"`
	DisplayName      string `bson:"displayName" json:"displayName"`
	Profile          string `bson:"profile" json:"profile"`
	MapURL           string `bson:"mapUrl" json:"mapUrl"`
	TransportCapable bool   `bson:"transportCapable" json:"transportCapable"`
	ChannelIdentity  string `bson:"channelIdentity" json:"channelIdentity"`
}
