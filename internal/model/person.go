package model

// Person is a record of the external people table.
// id is opaque and unique in the backing store; the service never generates or parses it.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
