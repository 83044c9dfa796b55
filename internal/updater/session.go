package updater

import "github.com/oklog/ulid/v2"

// session is the ephemeral state of one update invocation. It lives
// for the duration of the process and is never persisted.
type session struct {
	id          string
	path        string
	lockApplied bool
	unlocked    bool
	backupPath  string
	preVersion  string
	postVersion string
}

func newSession(path string) *session {
	return &session{
		id:   ulid.Make().String(),
		path: path,
	}
}
