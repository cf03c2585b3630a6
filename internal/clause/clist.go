package clause

import (
	"osprey/internal/fatal"
)

// Clist is a named doubly-linked clause list with O(1) membership via the
// container records kept on each clause. A clause may sit in several lists
// (for example SOS and Demodulators) at once.
type Clist struct {
	Name string
	head *ClistPos
	tail *ClistPos
	n    int
}

// ClistPos is one membership record: the clause's position in one list.
type ClistPos struct {
	C    *Clause
	List *Clist
	prev *ClistPos
	next *ClistPos
}

// Next and Prev walk the list.
func (p *ClistPos) Next() *ClistPos { return p.next }
func (p *ClistPos) Prev() *ClistPos { return p.prev }

// NewClist returns an empty named list.
func NewClist(name string) *Clist {
	return &Clist{Name: name}
}

// Head returns the first position, or nil.
func (l *Clist) Head() *ClistPos { return l.head }

// Len returns the number of members.
func (l *Clist) Len() int { return l.n }

// Empty reports an empty list.
func (l *Clist) Empty() bool { return l.n == 0 }

// First returns the first clause, or nil.
func (l *Clist) First() *Clause {
	if l.head == nil {
		return nil
	}
	return l.head.C
}

// Append adds the clause at the tail.
func (l *Clist) Append(c *Clause) {
	p := &ClistPos{C: c, List: l, prev: l.tail}
	if l.tail != nil {
		l.tail.next = p
	} else {
		l.head = p
	}
	l.tail = p
	l.n++
	c.containers = append(c.containers, p)
}

// Prepend adds the clause at the head.
func (l *Clist) Prepend(c *Clause) {
	p := &ClistPos{C: c, List: l, next: l.head}
	if l.head != nil {
		l.head.prev = p
	} else {
		l.tail = p
	}
	l.head = p
	l.n++
	c.containers = append(c.containers, p)
}

// Remove unlinks the clause. Removing a non-member is an index-invariant
// violation and therefore fatal.
func (l *Clist) Remove(c *Clause) {
	for i, p := range c.containers {
		if p.List != l {
			continue
		}
		if p.prev != nil {
			p.prev.next = p.next
		} else {
			l.head = p.next
		}
		if p.next != nil {
			p.next.prev = p.prev
		} else {
			l.tail = p.prev
		}
		l.n--
		c.containers = append(c.containers[:i], c.containers[i+1:]...)
		return
	}
	fatal.Fatal(fatal.ErrIndexCorrupt.New("removing clause from " + l.Name + " of which it is not a member"))
}

// Member reports whether the clause is in this list.
func (l *Clist) Member(c *Clause) bool {
	for _, p := range c.containers {
		if p.List == l {
			return true
		}
	}
	return false
}

// Clauses snapshots the members in order, safe to use while mutating.
func (l *Clist) Clauses() []*Clause {
	out := make([]*Clause, 0, l.n)
	for p := l.head; p != nil; p = p.next {
		out = append(out, p.C)
	}
	return out
}

// InList reports membership from the clause side.
func (c *Clause) InList(l *Clist) bool { return l.Member(c) }

// ContainerCount returns how many lists hold the clause; the loop invariant
// checks use it.
func (c *Clause) ContainerCount() int { return len(c.containers) }

// Containers returns the lists holding the clause.
func (c *Clause) Containers() []*Clist {
	out := make([]*Clist, len(c.containers))
	for i, p := range c.containers {
		out[i] = p.List
	}
	return out
}
