package prestashop

import "sort"

// CategoryNode is a category with its children, ordered by position.
type CategoryNode struct {
	Category Category
	Children []*CategoryNode
}

// CategoryRow is one line of the flattened tree.
type CategoryRow struct {
	ID         int
	Name       string
	Level      int
	ParentName string
}

// BuildCategoryTree links categories to their parents. Categories whose parent is
// 0 or missing from the list become roots.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[int]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		n := nodes[c.ID]
		parent, ok := nodes[c.ParentID]
		if c.ParentID == 0 || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Category.Position != nodes[j].Category.Position {
			return nodes[i].Category.Position < nodes[j].Category.Position
		}
		return nodes[i].Category.ID < nodes[j].Category.ID
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// PruneInactive drops inactive categories together with everything below them.
func PruneInactive(nodes []*CategoryNode) []*CategoryNode {
	var kept []*CategoryNode
	for _, n := range nodes {
		if !n.Category.Active {
			continue
		}
		n.Children = PruneInactive(n.Children)
		kept = append(kept, n)
	}
	return kept
}

// FlattenCategoryTree walks the tree depth first.
func FlattenCategoryTree(roots []*CategoryNode) []CategoryRow {
	var rows []CategoryRow
	var walk func(nodes []*CategoryNode, level int, parent string)
	walk = func(nodes []*CategoryNode, level int, parent string) {
		for _, n := range nodes {
			rows = append(rows, CategoryRow{
				ID:         n.Category.ID,
				Name:       n.Category.Name,
				Level:      level,
				ParentName: parent,
			})
			walk(n.Children, level+1, n.Category.Name)
		}
	}
	walk(roots, 0, "")
	return rows
}
