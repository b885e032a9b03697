package piecetree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// DebugTree renders the tree's current shape as an indented text tree, one
// line per node: buffer/offset/length, break count, height, and
// leftLineCount. It exists for ad-hoc inspection and tests, never for
// parsing or persistence.
func (t *Tree) DebugTree() string {
	p := treeprint.New()
	addNode(p, t.root)
	return p.String()
}

func addNode(p treeprint.Tree, n *node) {
	if n == nil {
		return
	}
	if n.left == nil && n.right == nil {
		p.AddNode(nodeLabel(n))
		return
	}
	branch := p.AddBranch(nodeLabel(n))
	addNode(branch, n.left)
	addNode(branch, n.right)
}

func nodeLabel(n *node) string {
	return fmt.Sprintf("%s[%d:%d) len=%d breaks=%d height=%d leftLines=%d",
		n.piece.Buffer, n.piece.Offset, n.piece.Offset+n.piece.Length,
		n.piece.Length, len(n.piece.LineBreaks), n.height, n.leftLineCount)
}
