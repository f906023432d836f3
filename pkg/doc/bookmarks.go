package doc

// BookmarkNode is one flattened outline entry.
type BookmarkNode struct {
	Title      string
	Level      int
	Action     ActionKind
	PageNumber int // 1-based display page, 0 when unresolved
}

// BuildBookmarkIndex flattens the document outline depth-first, child
// before sibling. Traversal uses an explicit stack so hostile nesting
// depth cannot overflow the goroutine stack. A node with an empty title
// is treated as a malformed sentinel: neither its children nor the
// siblings after it are visited.
func BuildBookmarkIndex(d Document) []BookmarkNode {
	root := d.Outline()
	if root == nil {
		return nil
	}

	type frame struct {
		bm    Bookmark
		level int
	}
	stack := []frame{{root, 0}}

	var nodes []BookmarkNode
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		title := f.bm.Title()
		if title == "" {
			continue
		}

		nodes = append(nodes, BookmarkNode{
			Title:      title,
			Level:      f.level,
			Action:     f.bm.ActionKind(),
			PageNumber: f.bm.PageNumber(),
		})

		// Sibling below the child on the stack: child first.
		if sib := f.bm.NextSibling(); sib != nil {
			stack = append(stack, frame{sib, f.level})
		}
		if child := f.bm.FirstChild(); child != nil {
			stack = append(stack, frame{child, f.level + 1})
		}
	}
	return nodes
}

// PageNames collapses a flattened outline into a page-to-title map. When
// several bookmarks land on the same page the last one in traversal
// order wins.
func PageNames(nodes []BookmarkNode) map[int]string {
	names := make(map[int]string, len(nodes))
	for _, n := range nodes {
		if n.PageNumber >= 1 {
			names[n.PageNumber] = n.Title
		}
	}
	return names
}
