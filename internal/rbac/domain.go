package rbac

// Role is the resolver's read model of an enabled role grant.
type Role struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Permission is the resolver's flat read model of an enabled permission.
type Permission struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ParentID  int64  `json:"parent_id"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Icon      string `json:"icon"`
	SortOrder int32  `json:"sort_order"`
}

// PermissionNode is a Permission with its children attached. A leaf omits
// the children field entirely rather than serializing an empty list.
type PermissionNode struct {
	Permission
	Children []*PermissionNode `json:"children,omitempty"`
}
