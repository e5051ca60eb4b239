package domain

// MinContactsPerCamper is the soft requirement checked before camp starts.
const MinContactsPerCamper = 2

// EmergencyContact is either a standalone record or a reference to a parent
// account. Parent references carry no display fields of their own; the
// repository resolves Name/Phone/PhotoURL from the parent row before a
// contact ever leaves the data layer.
type EmergencyContact struct {
	ID           uint   `json:"id"`
	ParentID     *uint  `json:"parent_id,omitempty"` // non-nil marks a parent reference
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	PhotoURL     string `json:"photo_url,omitempty"`
	Priority     int    `json:"priority"`
}

func (c *EmergencyContact) IsParentReference() bool {
	return c.ParentID != nil
}
