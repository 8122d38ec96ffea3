package realtime

// Presence publishes the identity list after each registry change.
type Presence struct {
	pub Publisher
}

// NewPresence creates a Presence that publishes through pub.
func NewPresence(pub Publisher) *Presence {
	return &Presence{pub: pub}
}

// Announce sends both snapshot forms followed by the delta.
func (p *Presence) Announce(change PresenceChange, identities []string) {
	if identities == nil {
		identities = []string{}
	}
	p.pub.Publish(UserList{Users: identities})
	p.pub.Publish(ConnectedUsers(identities))
	if change.Joined {
		p.pub.Publish(UserJoined{Username: change.Identity})
		return
	}
	p.pub.Publish(UserLeft{Username: change.Identity})
}
