package rbac

import "sort"

// BuildTree assembles a permission forest from a flat enabled-permission
// list. A parent index is built in one pass and nodes are attached in
// (sort_order, id) order, so every level comes out stably ordered. A node
// whose parent id references a permission absent from the input is an
// orphan: it does not appear anywhere in the forest, though it stays
// visible in flat listings. Roots have parent id 0.
func BuildTree(perms []Permission) []*PermissionNode {
	ordered := make([]Permission, len(perms))
	copy(ordered, perms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].ID < ordered[j].ID
	})

	nodes := make(map[int64]*PermissionNode, len(ordered))
	for _, p := range ordered {
		nodes[p.ID] = &PermissionNode{Permission: p}
	}

	var roots []*PermissionNode
	for _, p := range ordered {
		node := nodes[p.ID]
		if p.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[p.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
		// Orphans fall through: reachable in flat lists, absent here.
	}
	return roots
}

// Flatten renders a forest back into a flat list in depth-first
// (sort_order, id) order. Feeding the result back into BuildTree yields
// an identical forest.
func Flatten(forest []*PermissionNode) []Permission {
	var out []Permission
	var walk func(nodes []*PermissionNode)
	walk = func(nodes []*PermissionNode) {
		for _, n := range nodes {
			out = append(out, n.Permission)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}
