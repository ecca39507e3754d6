package domain

// Employee is the record attached to a scan when its raw data matches a
// known hash key. It is a read-only snapshot of the backing store row.
type Employee struct {
	ID                 string  `json:"id"`
	HashKey            string  `json:"hashKey"`
	Name               string  `json:"name"`
	Department         string  `json:"department"`
	Location           string  `json:"location"`
	ParticipantType    string  `json:"participantType"`
	IsBranchManager    bool    `json:"isBranchManager"`
	IsHeadOfDepartment bool    `json:"isHeadOfDepartment"`
	Attendance         string  `json:"attendance"`
	ImageURL           *string `json:"imageUrl,omitempty"`
}
