package bitbucket

// Scope identifies the repository a deployment environment belongs to.
type Scope struct {
	Workspace string
	RepoSlug  string
}

func (s Scope) String() string {
	return s.Workspace + "/" + s.RepoSlug
}

// Environment is a named deployment target within a repository scope.
// Environments are read-only from this tool's perspective: resolved by
// name, never created or deleted here.
type Environment struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// Variable is a single key/value entry within an environment. UUID is the
// opaque remote handle for the stored entry; it is empty on entries read
// from a local file and is never assigned by the client. A secured
// variable's value is never returned in plaintext by the remote store.
type Variable struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Secured bool   `json:"secured"`
	UUID    string `json:"uuid,omitempty"`
}

// VariablePage is one page of the paginated variable listing. Next is the
// absolute URL of the following page, empty on the last page.
type VariablePage struct {
	Values []Variable `json:"values"`
	Next   string     `json:"next,omitempty"`
}
