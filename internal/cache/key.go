package cache

// Key identifies one cached download lookup. The caller's bearer
// credential is part of the key, so re-authenticating never serves a
// result cached under an older session, while two calls with the same
// token share an entry.
type Key struct {
	Op         string
	File       string
	Credential string
}

func (k Key) String() string {
	return k.Op + "-" + k.File + "-" + k.Credential
}
