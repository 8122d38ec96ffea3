package store

// Store bundles the table stores behind the single value the realtime core
// and the auth service consume.
type Store struct {
	*UserStore
	*MessageStore
	*BoardStore
}

// New returns a Store backed by db.
func New(db *DB) *Store {
	return &Store{
		UserStore:    NewUserStore(db),
		MessageStore: NewMessageStore(db),
		BoardStore:   NewBoardStore(db),
	}
}
