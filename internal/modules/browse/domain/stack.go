package domain

// Stack is the navigation history. The bottom frame is always Home; Pop at
// the root is refused rather than emptying the stack.
type Stack struct {
	nodes []*Node
}

func NewStack(home *Node) *Stack {
	return &Stack{nodes: []*Node{home}}
}

func (s *Stack) Depth() int {
	return len(s.nodes)
}

func (s *Stack) Current() *Node {
	return s.nodes[len(s.nodes)-1]
}

// Under returns the frame beneath the current one, if any.
func (s *Stack) Under() (*Node, bool) {
	if len(s.nodes) < 2 {
		return nil, false
	}
	return s.nodes[len(s.nodes)-2], true
}

func (s *Stack) Home() *Node {
	return s.nodes[0]
}

func (s *Stack) Push(node *Node) {
	s.nodes = append(s.nodes, node)
}

// Pop removes the current frame. It reports false at the root.
func (s *Stack) Pop() bool {
	if len(s.nodes) <= 1 {
		return false
	}
	s.nodes[len(s.nodes)-1] = nil
	s.nodes = s.nodes[:len(s.nodes)-1]
	return true
}
