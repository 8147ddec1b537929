package html

import (
	"go.uber.org/zap"
)

// ChangeOp identifies a child collection mutation
type ChangeOp int

const (
	ChildAdded ChangeOp = iota
	ChildRemoved
)

func (op ChangeOp) String() string {
	if op == ChildRemoved {
		return "removed"
	}
	return "added"
}

// Change describes one mutation of a node's child collection
type Change struct {
	Op    ChangeOp
	Index int   // position of Child in the collection before removal or after insertion
	Child *Node // node that was added or removed
}

// Observer receives mutation notifications from a document. Parsing does
// not produce notifications, only edits made through the node API do.
type Observer interface {
	AttributeChanged(node *Node, name string)
	CollectionChanged(node *Node, change Change)
}

// NopObserver ignores all notifications
type NopObserver struct{}

func (NopObserver) AttributeChanged(*Node, string)  {}
func (NopObserver) CollectionChanged(*Node, Change) {}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnAttribute  func(node *Node, name string)
	OnCollection func(node *Node, change Change)
}

func (f ObserverFuncs) AttributeChanged(node *Node, name string) {
	if f.OnAttribute != nil {
		f.OnAttribute(node, name)
	}
}

func (f ObserverFuncs) CollectionChanged(node *Node, change Change) {
	if f.OnCollection != nil {
		f.OnCollection(node, change)
	}
}

// LogObserver reports mutations to a zap logger at debug level
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer writing to log
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("dom")}
}

func (o *LogObserver) AttributeChanged(node *Node, name string) {
	o.log.Debug("Attribute changed",
		zap.Int("node", int(node.Index())),
		zap.String("tag", node.Tag()),
		zap.String("attribute", name),
		zap.String("value", node.Attr(name)))
}

func (o *LogObserver) CollectionChanged(node *Node, change Change) {
	o.log.Debug("Children changed",
		zap.Int("node", int(node.Index())),
		zap.String("tag", node.Tag()),
		zap.Stringer("op", change.Op),
		zap.Int("index", change.Index),
		zap.Int("child", int(change.Child.Index())))
}

// multiObserver fans notifications out to several observers
type multiObserver []Observer

func (m multiObserver) AttributeChanged(node *Node, name string) {
	for _, o := range m {
		o.AttributeChanged(node, name)
	}
}

func (m multiObserver) CollectionChanged(node *Node, change Change) {
	for _, o := range m {
		o.CollectionChanged(node, change)
	}
}

// CombineObservers returns an observer notifying each of observers in order
func CombineObservers(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return NopObserver{}
	case 1:
		return m[0]
	}
	return m
}
