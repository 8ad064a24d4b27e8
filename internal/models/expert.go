package models

import "fmt"

// Expert is a panel member. The panel is fixed at process start and acts as
// a closed allow-list: inbound mail from any other address is rejected.
type Expert struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Title   string `json:"title"`
}

// Label renders the expert as stored in the ledger's Expert column.
func (e Expert) Label() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Title)
}
