package domain

// Sequences holds the last id minted for each entity kind.
type Sequences struct {
	Users      int `json:"users"`
	Employees  int `json:"employees"`
	Attendance int `json:"attendance"`
}
