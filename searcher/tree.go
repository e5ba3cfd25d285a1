package searcher

import "github.com/kristbsy/alpha-scuffed/game"

// NodeID is a stable identifier into the tree arena. Nodes reference each
// other through identifiers instead of pointers; identifiers stay valid for
// the lifetime of the tree.
type NodeID int32

const noNode NodeID = -1

// noMove marks the root, the only node without a source move.
const noMove = -1

type node struct {
	game       game.Game
	visits     int
	score      float64
	sourceMove int
	parent     NodeID
	children   []NodeID
}

// tree is an append-only arena of search nodes. It grows for the duration of
// one search and is discarded wholesale afterwards; nodes are never removed.
type tree struct {
	nodes []node
}

func newTree(root game.Game) *tree {
	return &tree{
		nodes: []node{{
			game:       root,
			sourceMove: noMove,
			parent:     noNode,
		}},
	}
}

func (t *tree) root() NodeID {
	return 0
}

func (t *tree) at(id NodeID) *node {
	return &t.nodes[id]
}

func (t *tree) parentOf(id NodeID) (NodeID, bool) {
	parent := t.nodes[id].parent
	return parent, parent != noNode
}

func (t *tree) childrenOf(id NodeID) []NodeID {
	return t.nodes[id].children
}

func (t *tree) addChild(parent NodeID, g game.Game, sourceMove int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		game:       g,
		sourceMove: sourceMove,
		parent:     parent,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

func (t *tree) size() int {
	return len(t.nodes)
}

// expand appends one child per legal move, each wrapping a clone of the
// node's position with that move applied. Terminal nodes have no legal moves
// and are never expanded.
func (t *tree) expand(id NodeID) {
	g := t.at(id).game
	for _, move := range game.MoveIndices(g) {
		next := g.Clone()
		next.PerformMove(move)
		t.addChild(id, next, move)
	}
}

// backprop walks from the given node up to the root, counting a visit and
// accumulating the propagated value at every step. The value is multiplied
// by DECAY per level, so outcomes weigh less on distant ancestors.
func (t *tree) backprop(id NodeID, points float64) {
	for {
		n := t.at(id)
		n.visits++
		n.score += points
		if n.parent == noNode {
			return
		}
		id = n.parent
		points *= DECAY
	}
}
