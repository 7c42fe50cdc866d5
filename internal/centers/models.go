package centers

// Summary is the display shape of a center exposed to invitation holders
// and superadmins: identifier plus the attributes shown in listings.
type Summary struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Town      string `db:"town" json:"town"`
	StateName string `db:"state_name" json:"state_name"`
}
