package model

// TreeNode is a PersonRecord embedded in an assembled hierarchy. Each node is
// owned by exactly one parent.
type TreeNode struct {
	PersonRecord
	Level        int         `json:"level"`
	IsCrossGroup bool        `json:"is_cross_group"`
	Roles        []string    `json:"roles,omitempty"`
	Groups       []string    `json:"groups,omitempty"`
	Children     []*TreeNode `json:"children"`
}

// GroupData is one group's records as returned by the record store.
type GroupData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ParentGroupID string         `json:"parent_group_id,omitempty"`
	Members       []PersonRecord `json:"members"`
}
