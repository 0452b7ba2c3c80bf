package internal

import (
	"golang.org/x/exp/constraints"

	"github.com/tuannh982/actor-treeset/treeset/commons"
)

// Op selects the verb of a Request.
type Op int

const (
	OpInsert Op = iota
	OpContains
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpContains:
		return "contains"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Direction addresses one of a node's two child slots. Every value reachable
// through Left is smaller than the node's own value, every value through
// Right is greater.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Envelope is implemented by every message a tree unit accepts on its
// mailbox. Mailbox delivery is the only way state of a unit is ever touched.
type Envelope interface {
	envelope()
}

// Request asks the receiving subtree to apply one set operation. Whichever
// node answers sends the reply straight to ReplyTo; replies are never
// relayed back up the tree.
type Request[V constraints.Ordered] struct {
	Op      Op
	ReplyTo chan<- commons.Reply
	ID      commons.OpID
	Elem    V
}

// CopyTo instructs the receiving node to reinsert its live value into Target,
// have its children do the same, and send Dir on Done once the whole subtree
// has been applied. It is one-shot: a node receives at most one CopyTo per
// generation, and no Request may trail it on the same edge.
type CopyTo[V constraints.Ordered] struct {
	Target *Node[V]
	Dir    Direction
	Done   chan<- Direction
}

// Collect asks the set to start a garbage collection pass. It never reaches
// a node and carries no reply.
type Collect struct{}

func (Request[V]) envelope() {}
func (CopyTo[V]) envelope()  {}
func (Collect) envelope()    {}
