package doctree

// DocTree is the heading outline of a decoded document.
type DocTree struct {
	Title    string     // Document title (first heading, or the filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title     string     // Section heading (empty for leaf text)
	Level     int        // Heading level 1-9, 0 for leaf text
	Text      string     // Text content of this node (may be empty for container nodes)
	Paragraph int        // Index of the heading paragraph, or of the first text paragraph
	Children  []*DocNode // Subsections
}

// Entry is one heading in document order with the headings above it.
type Entry struct {
	Title      string   `json:"title"`
	Level      int      `json:"level"`
	Paragraph  int      `json:"paragraph"`
	Breadcrumb []string `json:"breadcrumb"` // e.g. ["Financial Results", "Revenue", "Q4"]
}

// Entries flattens the tree depth first.
func (t *DocTree) Entries() []Entry {
	var out []Entry
	var walk func(nodes []*DocNode, trail []string)
	walk = func(nodes []*DocNode, trail []string) {
		for _, n := range nodes {
			if n.Title == "" {
				continue
			}
			crumbs := append(append([]string(nil), trail...), n.Title)
			out = append(out, Entry{Title: n.Title, Level: n.Level, Paragraph: n.Paragraph, Breadcrumb: crumbs})
			walk(n.Children, crumbs)
		}
	}
	walk(t.Children, nil)
	return out
}

// Count returns the number of nodes in the tree.
func (t *DocTree) Count() int {
	var count func(nodes []*DocNode) int
	count = func(nodes []*DocNode) int {
		n := len(nodes)
		for _, c := range nodes {
			n += count(c.Children)
		}
		return n
	}
	return count(t.Children)
}
