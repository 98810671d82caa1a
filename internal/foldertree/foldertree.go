// Package foldertree derives the nested folder hierarchy from the flat folder
// list. Ancestry is always resolved by looking ids up in the list passed in,
// never through node pointers left over from an earlier build.
package foldertree

import (
	"sort"

	"github.com/rodstewart/savlink-cli/internal/models"
)

// Node is a folder with its children.
type Node struct {
	Folder   models.Folder
	Children []*Node
}

// Flat is a folder annotated with its depth in the tree.
type Flat struct {
	models.Folder
	Depth int `json:"depth"`
}

// Build groups folders by parent. Folders without a parent, or whose parent is
// not in the list, become roots. Siblings are ordered by Position, keeping
// input order for ties. Folders caught in a parent cycle are promoted to roots
// so that every folder appears exactly once.
func Build(folders []models.Folder) []*Node {
	nodes := make(map[int]*Node, len(folders))
	order := make([]*Node, 0, len(folders))
	for _, f := range folders {
		if _, dup := nodes[f.ID]; dup {
			continue
		}
		n := &Node{Folder: f}
		nodes[f.ID] = n
		order = append(order, n)
	}

	var roots []*Node
	for _, n := range order {
		pid := n.Folder.ParentID
		if pid == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*pid]
		if !ok || *pid == n.Folder.ID {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Anything not reachable from a root sits on a cycle, or hangs off one.
	// Promote the first such node per cycle and cut its parent edge.
	reached := make(map[int]bool, len(order))
	for _, r := range roots {
		mark(r, reached)
	}
	for _, n := range order {
		if reached[n.Folder.ID] {
			continue
		}
		cycleEntry := n
		seen := map[int]bool{}
		for !seen[cycleEntry.Folder.ID] {
			seen[cycleEntry.Folder.ID] = true
			cycleEntry = nodes[*cycleEntry.Folder.ParentID]
		}
		parent := nodes[*cycleEntry.Folder.ParentID]
		parent.Children = removeChild(parent.Children, cycleEntry)
		roots = append(roots, cycleEntry)
		mark(cycleEntry, reached)
	}

	sortSiblings(roots)
	return roots
}

func mark(n *Node, reached map[int]bool) {
	reached[n.Folder.ID] = true
	for _, c := range n.Children {
		mark(c, reached)
	}
}

func removeChild(children []*Node, target *Node) []*Node {
	out := children[:0]
	for _, c := range children {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Folder.Position < nodes[j].Folder.Position
	})
	for _, n := range nodes {
		sortSiblings(n.Children)
	}
}

// Flatten walks the tree in pre-order. Roots have depth 0.
func Flatten(tree []*Node) []Flat {
	var out []Flat
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			out = append(out, Flat{Folder: n.Folder, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(tree, 0)
	return out
}

// CanMove reports whether the folder sourceID may be placed under targetID.
// It refuses moving a folder into itself or into one of its descendants, and
// refuses when either id is unknown or the target's ancestry already loops.
func CanMove(folders []models.Folder, sourceID, targetID int) bool {
	if sourceID == targetID {
		return false
	}

	byID := index(folders)
	if _, ok := byID[sourceID]; !ok {
		return false
	}
	target, ok := byID[targetID]
	if !ok {
		return false
	}

	seen := map[int]bool{target.ID: true}
	for target.ParentID != nil {
		pid := *target.ParentID
		if pid == sourceID {
			return false
		}
		if seen[pid] {
			return false
		}
		seen[pid] = true

		parent, ok := byID[pid]
		if !ok {
			return true
		}
		target = parent
	}
	return true
}

// Path returns the folders from the root down to id, inclusive. It returns
// nil when id is unknown and stops early if the ancestry loops.
func Path(folders []models.Folder, id int) []models.Folder {
	byID := index(folders)
	current, ok := byID[id]
	if !ok {
		return nil
	}

	var path []models.Folder
	seen := map[int]bool{}
	for {
		if seen[current.ID] {
			break
		}
		seen[current.ID] = true
		path = append(path, current)

		if current.ParentID == nil {
			break
		}
		parent, ok := byID[*current.ParentID]
		if !ok {
			break
		}
		current = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Descendants returns the ids of every folder below id, breadth first.
func Descendants(folders []models.Folder, id int) []int {
	children := make(map[int][]int)
	for _, f := range folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	var out []int
	seen := map[int]bool{id: true}
	queue := []int{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

// CountLinks sets LinkCount to the number of links filed directly in each
// folder and TotalLinkCount to the number in its whole subtree.
func CountLinks(tree []*Node, links []models.Link) {
	direct := make(map[int]int)
	for _, l := range links {
		if l.FolderID != nil {
			direct[*l.FolderID]++
		}
	}

	var count func(n *Node) int
	count = func(n *Node) int {
		n.Folder.LinkCount = direct[n.Folder.ID]
		total := n.Folder.LinkCount
		for _, c := range n.Children {
			total += count(c)
		}
		n.Folder.TotalLinkCount = total
		return total
	}
	for _, n := range tree {
		count(n)
	}
}

func index(folders []models.Folder) map[int]models.Folder {
	byID := make(map[int]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return byID
}
