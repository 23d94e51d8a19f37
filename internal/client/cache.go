package client

// RequestCache deduplicates project and member lookups within a single
// request. Pages often need the same project in several places; the cache
// keeps that to one API call. It is not safe for concurrent use and must be
// discarded when the request ends.
type RequestCache struct {
	projects map[string]*Project
	members  map[string][]Member
}

func NewRequestCache() *RequestCache {
	return &RequestCache{
		projects: make(map[string]*Project),
		members:  make(map[string][]Member),
	}
}

// Project returns the cached project for an identifier. The second return
// distinguishes "cached as missing" from "never fetched".
func (c *RequestCache) Project(identifier string) (*Project, bool) {
	p, ok := c.projects[identifier]
	return p, ok
}

// StoreProject records a lookup result, including nil for a miss so repeat
// lookups of a missing project skip the network too.
func (c *RequestCache) StoreProject(identifier string, p *Project) {
	c.projects[identifier] = p
	if p != nil {
		// Either handle can be used on later lookups.
		c.projects[p.ID] = p
		c.projects[p.Slug] = p
	}
}

func (c *RequestCache) Members(identifier string) ([]Member, bool) {
	m, ok := c.members[identifier]
	return m, ok
}

func (c *RequestCache) StoreMembers(identifier string, members []Member) {
	c.members[identifier] = members
}

// Evict drops everything. Call when the request finishes so no stale entry
// leaks into the next one.
func (c *RequestCache) Evict() {
	c.projects = make(map[string]*Project)
	c.members = make(map[string][]Member)
}
