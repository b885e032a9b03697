package piecetree

import (
	"io"
	"log"

	"github.com/pkg/errors"
)

// Tree is the public façade over the AVL piece tree described in the module
// overview: it holds the root and implements Insert, Remove, GetLinePieces,
// and in-order enumeration. It is single-threaded and synchronous per spec
// §5 — callers that want concurrent reads and writes must serialize them
// externally.
type Tree struct {
	root *node

	// logger receives the rebalance diagnostic lines written by
	// logRotationsIfAny. It defaults to a discarding logger, mirroring cmd/aretext/main.go's
	// log.SetOutput(io.Discard) pattern: logging here is diagnostic, never
	// load-bearing.
	logger *log.Logger
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{logger: log.New(io.Discard, "", 0)}
}

// SetLogger installs a logger that receives the rebalance diagnostic lines
// described at logRotationsIfAny. Passing nil restores the discarding
// default.
func (t *Tree) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	t.logger = logger
}

// Insert inserts piece at the given 0-based line and column, per spec §4.4.
// column is the count of units into the visual line before the insertion
// point; insertion occurs to the right of any character at that column.
func (t *Tree) Insert(piece Piece, line, column int) error {
	if t.root == nil {
		if line != 0 || column != 0 {
			return errors.Wrapf(ErrInvalidPosition, "insert at (%d,%d) on empty tree", line, column)
		}
		t.root = newNode(piece)
		return nil
	}

	pos, ok := findLine(t.root, line)
	if !ok {
		return errors.Wrapf(ErrInvalidPosition, "line %d not found", line)
	}
	pos, ok = findColumn(pos, column)
	if !ok {
		return errors.Wrapf(ErrInvalidPosition, "column %d out of range on line %d", column, line)
	}

	target := pos.node
	switch {
	case pos.offset == 0:
		t.spliceBefore(target, piece)
	case pos.offset >= target.piece.Length:
		t.spliceAfter(target, piece)
	default:
		t.spliceSplit(target, piece, pos.offset)
	}
	return nil
}

// spliceBefore inserts a new node holding piece immediately before target in
// document order: the new node takes target's left subtree, and target
// becomes the new node's right child (spec §4.4 case piece_offset == 0).
func (t *Tree) spliceBefore(target *node, piece Piece) {
	n := newNode(piece)
	parent := target.parent

	n.left = target.left
	if n.left != nil {
		n.left.parent = n
	}
	target.left = nil

	n.right = target
	target.parent = n

	// target lost its left child; its height/leftLineCount are stale and
	// must be fixed before n (and anything above it) is recomputed.
	recalcMetadata(target)

	t.replaceInParent(parent, target, n)
	t.rebalanceFrom(n)
}

// spliceAfter inserts a new node holding piece immediately after target: the
// new node takes target's right subtree, and target becomes its left child
// (spec §4.4 case piece_offset >= target.length).
func (t *Tree) spliceAfter(target *node, piece Piece) {
	n := newNode(piece)
	parent := target.parent

	n.right = target.right
	if n.right != nil {
		n.right.parent = n
	}
	target.right = nil

	n.left = target
	target.parent = n

	// target lost its right child; its height is stale and must be fixed
	// before n (and anything above it) is recomputed.
	recalcMetadata(target)

	t.replaceInParent(parent, target, n)
	t.rebalanceFrom(n)
}

// spliceSplit splits target's piece at offset, replacing target in the tree
// with a new node holding piece; target (truncated to the left half) becomes
// the new node's left child, and a fresh node holding the right half becomes
// its right child, inheriting target's original right subtree (spec §4.4
// default case).
func (t *Tree) spliceSplit(target *node, piece Piece, offset int) {
	rightPiece := target.piece.splitAt(offset)
	right := newNode(rightPiece)
	right.right = target.right
	if right.right != nil {
		right.right.parent = right
	}
	target.right = nil

	n := newNode(piece)
	parent := target.parent

	n.left = target
	target.parent = n

	n.right = right
	right.parent = n

	// target lost its right child and right is a freshly constructed node
	// wrapping target's old right subtree: both have stale/placeholder
	// height and leftLineCount and must be fixed before n is recomputed.
	recalcMetadata(target)
	recalcMetadata(right)

	t.replaceInParent(parent, target, n)
	t.rebalanceFrom(n)
}

// replaceInParent rewires parent's child slot (or the tree root) from old to
// replacement.
func (t *Tree) replaceInParent(parent, old, replacement *node) {
	if parent == nil {
		t.root = replacement
		return
	}
	if parent.left == old {
		parent.left = replacement
	} else {
		parent.right = replacement
	}
}

// rebalanceFrom runs balance-and-update from start and writes back the
// resulting root, then logs at most one diagnostic line for the walk.
func (t *Tree) rebalanceFrom(start *node) {
	before := t.heightsSnapshot(start)
	if newRoot := balanceAndUpdate(start); newRoot != nil {
		t.root = newRoot
	}
	t.logRotationsIfAny(before, start)
}

// heightsSnapshot and logRotationsIfAny produce the diagnostic log line
// without threading a rotation counter through node.go's pure tree
// algorithms. One line is written per rebalanceFrom walk, and only when the
// whole tree's height after the walk differs from start's height before it.
// Individual rotations are neither counted nor logged, and whole-piece
// removals (which rebalance inside removeNode) log nothing.
func (t *Tree) heightsSnapshot(start *node) int {
	return nodeHeight(start)
}

func (t *Tree) logRotationsIfAny(beforeHeight int, start *node) {
	afterHeight := nodeHeight(t.root)
	if afterHeight != beforeHeight {
		t.logger.Printf("piecetree: rebalanced from node (pre-height %d, tree height now %d)", beforeHeight, afterHeight)
	}
}

// Remove deletes length contiguous units starting at (line, column), per
// spec §4.5.
func (t *Tree) Remove(line, column, length int) error {
	if length < 1 {
		return errors.Wrapf(ErrInvalidPosition, "removal length %d must be >= 1", length)
	}
	if t.root == nil {
		return errors.Wrap(ErrInvalidPosition, "remove from empty tree")
	}

	pos, ok := findLine(t.root, line)
	if !ok {
		return errors.Wrapf(ErrInvalidPosition, "line %d not found", line)
	}
	pos, ok = findColumn(pos, column)
	if !ok {
		return errors.Wrapf(ErrInvalidPosition, "column %d out of range on line %d", column, line)
	}

	n := pos.node
	offset := pos.offset
	remaining := length

	// Check that the whole span exists before mutating anything, so an
	// over-long removal fails with the tree unchanged.
	avail := -offset
	for m := n; m != nil && avail < length; m = successor(m) {
		avail += m.piece.Length
	}
	if avail < length {
		return errors.Wrap(ErrInvalidPosition, "removal length exceeds the remaining document")
	}

	for remaining > 0 {
		if n == nil {
			return errors.Wrap(ErrInvalidPosition, "removal length exceeds the remaining document")
		}

		switch {
		case offset > 0 && offset+remaining < n.piece.Length:
			t.removeMidPiece(n, offset, remaining)
			return nil

		case offset > 0:
			removed := n.piece.Length - offset
			n.piece.cutRight(offset)
			t.rebalanceFrom(n)
			remaining -= removed
			succ := successor(n)
			n, offset = succ, 0

		case remaining < n.piece.Length:
			n.piece.cutLeft(remaining)
			t.rebalanceFrom(n)
			return nil

		default: // offset == 0 && remaining >= n.piece.Length: whole piece removed
			removed := n.piece.Length
			succ := successor(n)
			t.root = removeNode(t.root, n)
			remaining -= removed
			n, offset = succ, 0
		}
	}
	return nil
}

// removeMidPiece implements spec §4.5's case where offset > 0 and the
// removal ends strictly inside n's piece: a new right node covering the
// untouched suffix is spliced in (inheriting n's original right subtree),
// and n is truncated to its prefix.
func (t *Tree) removeMidPiece(n *node, offset, remaining int) {
	suffix := n.piece
	suffix.cutLeft(offset + remaining)

	right := newNode(suffix)
	right.right = n.right
	if right.right != nil {
		right.right.parent = right
	}
	n.right = right
	right.parent = n

	n.piece.cutRight(offset)
	t.rebalanceFrom(right)
}

// GetLinePieces returns the ordered, trimmed Pieces composing visual line
// L, per spec §4.6.
func (t *Tree) GetLinePieces(line int) ([]Piece, error) {
	if t.root == nil {
		return nil, errors.Wrapf(ErrInvalidPosition, "line %d not found in empty tree", line)
	}

	pos, ok := findLine(t.root, line)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPosition, "line %d not found", line)
	}

	var out []Piece
	n := pos.node
	startOffset := pos.offset

	for {
		idx := firstBreakAtOrAfter(n.piece, startOffset)
		if idx < len(n.piece.LineBreaks) {
			cut := n.piece
			cut.cutLeft(startOffset)
			end := n.piece.LineBreaks[idx] - startOffset + 1
			cut.cutRight(end)
			out = append(out, cut)
			return out, nil
		}

		piece := n.piece
		piece.cutLeft(startOffset)
		out = append(out, piece)

		succ := successor(n)
		if succ == nil {
			return out, nil
		}
		n = succ
		startOffset = 0
	}
}

// firstBreakAtOrAfter returns the index of the first element of
// p.LineBreaks that is >= offset, or len(p.LineBreaks) if none.
func firstBreakAtOrAfter(p Piece, offset int) int {
	return p.lineOfOffset(offset)
}

// Iter returns a forward-only, non-restartable in-order iterator over every
// Piece in the tree (spec §4.6, §9).
func (t *Tree) Iter() *Iterator {
	return newIterator(t.root)
}
