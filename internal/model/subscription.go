package model

import "time"

// Subscription links a subscriber to a channel (another user).
type Subscription struct {
	ID         string    `db:"id" json:"id"`
	Subscriber string    `db:"subscriber_id" json:"subscriber"`
	Channel    string    `db:"channel_id" json:"channel"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// SubscriptionToggleResult reports the state after a toggle.
type SubscriptionToggleResult struct {
	ChannelID        string      `json:"channelId"`
	State            ToggleState `json:"state"`
	IsSubscribed     bool        `json:"isSubscribed"`
	SubscribersCount int64       `json:"subscribersCount"`
}

// SubscriberList is returned by the subscriber and channel listings.
type SubscriberList struct {
	Users []UserSummary `json:"users"`
	Count int           `json:"count"`
}

var ErrCannotSubscribeSelf = newError(ErrInvalidArgument, "cannot subscribe to self")
