package ir

// Op is the base interface for semantic operations being performed within a
// template.
type Op interface {
	GetKind() OpKind
	GetPrev() Op
	SetPrev(op Op)
	GetNext() Op
	SetNext(op Op)
	GetDebugListId() *int
	SetDebugListId(id *int)
	// Next is a convenience method that calls GetNext()
	Next() Op
}

var nextListId = 0

// OpList is a linked list of Op nodes.
type OpList struct {
	debugListId int
	head        Op
	tail        Op
}

// NewOpList creates a new OpList.
func NewOpList() *OpList {
	listId := nextListId
	nextListId++
	head := &ListEndOp{debugListId: listId}
	tail := &ListEndOp{debugListId: listId}
	head.SetNext(tail)
	tail.SetPrev(head)
	return &OpList{
		debugListId: listId,
		head:        head,
		tail:        tail,
	}
}

// ListEndOp is a special operation type used to represent the beginning and
// end nodes of a linked list of operations.
type ListEndOp struct {
	prev        Op
	next        Op
	debugListId int
}

func (l *ListEndOp) GetKind() OpKind { return OpKindListEnd }
func (l *ListEndOp) GetPrev() Op     { return l.prev }
func (l *ListEndOp) SetPrev(op Op)   { l.prev = op }
func (l *ListEndOp) GetNext() Op     { return l.next }
func (l *ListEndOp) Next() Op        { return l.next }
func (l *ListEndOp) SetNext(op Op)   { l.next = op }

func (l *ListEndOp) GetDebugListId() *int { return &l.debugListId }

func (l *ListEndOp) SetDebugListId(id *int) {
	if id == nil {
		return
	}
	l.debugListId = *id
}

// CreateOp is a base interface for creation operations.
type CreateOp interface {
	Op
	GetXref() XrefId
}

// UpdateOp is a base interface for update operations.
type UpdateOp interface {
	Op
	GetTarget() XrefId
}

// OpBase is a base struct for operations.
type OpBase struct {
	prev        Op
	next        Op
	debugListId *int
}

func (o *OpBase) GetPrev() Op           { return o.prev }
func (o *OpBase) SetPrev(op Op)         { o.prev = op }
func (o *OpBase) GetNext() Op           { return o.next }
func (o *OpBase) Next() Op              { return o.next }
func (o *OpBase) SetNext(op Op)         { o.next = op }
func (o *OpBase) GetDebugListId() *int  { return o.debugListId }
func (o *OpBase) SetDebugListId(id *int) { o.debugListId = id }

// Head returns the head sentinel of the list.
func (l *OpList) Head() Op { return l.head }

// Tail returns the tail sentinel of the list.
func (l *OpList) Tail() Op { return l.tail }

// Push adds an operation to the tail of the list.
func (l *OpList) Push(op Op) {
	if op.GetKind() == OpKindListEnd {
		panic("AssertionError: cannot push list end node")
	}
	if op.GetDebugListId() != nil {
		panic("AssertionError: operation is already owned by a list")
	}

	listId := l.debugListId
	op.SetDebugListId(&listId)

	prev := l.tail.GetPrev()
	prev.SetNext(op)
	op.SetPrev(prev)
	op.SetNext(l.tail)
	l.tail.SetPrev(op)
}

// InsertBefore inserts a new operation before a given Op.
func (l *OpList) InsertBefore(op Op, newOp Op) {
	if newOp.GetKind() == OpKindListEnd {
		panic("AssertionError: cannot insert list end node")
	}
	if newOp.GetDebugListId() != nil {
		panic("AssertionError: operation is already owned by a list")
	}
	if op.GetDebugListId() == nil || *op.GetDebugListId() != l.debugListId {
		panic("AssertionError: operation is not owned by this list")
	}

	listId := l.debugListId
	newOp.SetDebugListId(&listId)

	prev := op.GetPrev()
	prev.SetNext(newOp)
	newOp.SetPrev(prev)
	newOp.SetNext(op)
	op.SetPrev(newOp)
}

// InsertAfter inserts a new operation after a given Op.
func (l *OpList) InsertAfter(op Op, newOp Op) {
	if newOp.GetKind() == OpKindListEnd {
		panic("AssertionError: cannot insert list end node")
	}
	if newOp.GetDebugListId() != nil {
		panic("AssertionError: operation is already owned by a list")
	}
	if op.GetDebugListId() == nil || *op.GetDebugListId() != l.debugListId {
		panic("AssertionError: operation is not owned by this list")
	}

	listId := l.debugListId
	newOp.SetDebugListId(&listId)

	next := op.GetNext()
	op.SetNext(newOp)
	newOp.SetPrev(op)
	newOp.SetNext(next)
	next.SetPrev(newOp)
}

// Remove removes an operation from the list.
func (l *OpList) Remove(op Op) {
	if op.GetKind() == OpKindListEnd {
		panic("AssertionError: cannot remove list end node")
	}
	if op.GetDebugListId() == nil || *op.GetDebugListId() != l.debugListId {
		panic("AssertionError: operation is not owned by this list")
	}

	prev := op.GetPrev()
	next := op.GetNext()
	prev.SetNext(next)
	next.SetPrev(prev)
	op.SetPrev(nil)
	op.SetNext(nil)
	op.SetDebugListId(nil)
}

// Replace replaces an operation with a new one.
func (l *OpList) Replace(oldOp Op, newOp Op) {
	if newOp.GetKind() == OpKindListEnd || oldOp.GetKind() == OpKindListEnd {
		panic("AssertionError: cannot replace list end node")
	}
	if newOp.GetDebugListId() != nil {
		panic("AssertionError: new operation is already owned by a list")
	}
	if oldOp.GetDebugListId() == nil || *oldOp.GetDebugListId() != l.debugListId {
		panic("AssertionError: old operation is not owned by this list")
	}

	listId := l.debugListId
	newOp.SetDebugListId(&listId)

	prev := oldOp.GetPrev()
	next := oldOp.GetNext()
	prev.SetNext(newOp)
	newOp.SetPrev(prev)
	newOp.SetNext(next)
	next.SetPrev(newOp)
	oldOp.SetPrev(nil)
	oldOp.SetNext(nil)
	oldOp.SetDebugListId(nil)
}
