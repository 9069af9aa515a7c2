package containers

type node[T any] struct {
	next  *node[T]
	value T
}

// Queue is a FIFO. With a positive capacity, pushing onto a full queue drops
// the oldest element.
type Queue[T any] struct {
	head     *node[T]
	tail     *node[T]
	size     int
	capacity int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func NewBoundedQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{capacity: capacity}
}

// Push returns true when an old element had to be dropped.
func (s *Queue[T]) Push(p T) bool {
	n := &node[T]{value: p}
	if s.tail == nil {
		s.head = n
	} else {
		s.tail.next = n
	}
	s.tail = n
	s.size++

	if s.capacity > 0 && s.size > s.capacity {
		s.Pop()
		return true
	}
	return false
}

func (s *Queue[T]) Peek() T {
	var none T
	if s.head == nil {
		return none
	}
	return s.head.value
}

func (s *Queue[T]) Pop() T {
	var none T
	if s.head == nil {
		return none
	}

	head := s.head
	s.head = head.next
	if s.head == nil {
		s.tail = nil
	}
	s.size--

	return head.value
}

func (s *Queue[T]) Size() int {
	return s.size
}

// Items returns the elements from oldest to newest.
func (s *Queue[T]) Items() []T {
	items := make([]T, 0, s.size)
	for n := s.head; n != nil; n = n.next {
		items = append(items, n.value)
	}
	return items
}
