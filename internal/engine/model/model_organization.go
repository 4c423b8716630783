package model

// Organization is the business view of an organization document. The id is
// opaque and assigned by storage on insert.
type Organization struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
}
