package domain

// ============================================================
// Customer — a policy-holding client of the insurer.
// ============================================================

// Customer is a registered insurance customer. The ID is assigned by the
// store at creation and never changes.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// FullName returns the display name used by enriched read views.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
