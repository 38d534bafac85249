package models

// Project is a real-estate project as returned by the backend pagination
// endpoint. Developer and village names are snapshots taken at query time.
type Project struct {
	ProjectID          int64   `json:"project_id"`
	DeveloperID        int64   `json:"developer_id"`
	DeveloperName      string  `json:"developer_name"`
	VillageID          int64   `json:"village_id"`
	VillageName        string  `json:"village_name"`
	ProjectName        string  `json:"project_name"`
	ProjectDescription string  `json:"project_description"`
	IsActive           bool    `json:"is_active"`
	CreatedBy          string  `json:"created_by"`
	CreatedDate        string  `json:"created_date"`
	UpdatedBy          string  `json:"updated_by"`
	LastUpdate         *string `json:"last_update"`
}

// Option is a picked value in a selection control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Address is collected by the edit form. Only Village is persisted, as the
// project's village_id.
type Address struct {
	Province      *Option `json:"province"`
	District      *Option `json:"district"`
	Commune       *Option `json:"commune"`
	Village       *Option `json:"village"`
	HomeAddress   string  `json:"homeAddress"`
	StreetAddress string  `json:"streetAddress"`
}
