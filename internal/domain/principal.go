package domain

// Principal is the authenticated identity attached to a request. A nil
// *Principal means the caller is anonymous.
type Principal struct {
	ID   string
	Role string
}

// IsOwnerOf reports whether p owns the card. Safe on a nil principal.
func (p *Principal) IsOwnerOf(c *Card) bool {
	return p != nil && c != nil && p.ID == c.OwnerID
}
