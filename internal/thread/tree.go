package thread

import "github.com/vlad4uk/padaroja-cli/internal/model"

// MaxIndentDepth 展示层的最大缩进层级
// 超过该层级的回复与第4层使用相同缩进，仅影响展示，不影响数据结构
const MaxIndentDepth = 4

// Node 评论树节点
// 回复序列按到达顺序排列，不按时间戳重排
type Node struct {
	model.Comment
	Replies []*Node

	parent *Node
}

// Thread 单个帖子的评论树
// 由扁平评论列表派生，结构性变化（新增、删除）通过增量接口维护
type Thread struct {
	roots []*Node
	nodes map[uint]*Node
}

// Build 由扁平评论列表构建评论树
// 第一遍建立 id 索引，第二遍按 parent_id 是否可解析分桶。
// parent_id 无法解析（父评论被删除或尚未加载）的评论按顶级评论处理，
// 保证任何评论都不会从视图中丢失
func Build(comments []model.Comment) *Thread {
	t := &Thread{
		nodes: make(map[uint]*Node, len(comments)),
	}

	for i := range comments {
		c := comments[i]
		if _, ok := t.nodes[c.ID]; ok {
			// 重复id只保留首次出现
			continue
		}
		t.nodes[c.ID] = &Node{Comment: c}
	}

	placed := make(map[uint]bool, len(t.nodes))
	for i := range comments {
		c := comments[i]
		n := t.nodes[c.ID]
		if placed[c.ID] {
			continue
		}
		placed[c.ID] = true

		if !c.IsRoot() {
			if parent, ok := t.nodes[*c.ParentID]; ok && parent != n {
				n.parent = parent
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		t.roots = append(t.roots, n)
	}

	return t
}

// Roots 顶级评论序列，保持原始相对顺序
func (t *Thread) Roots() []*Node {
	return t.roots
}

// Get 按id查找节点
func (t *Thread) Get(id uint) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains 评论是否仍在树中
func (t *Thread) Contains(id uint) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len 树中评论总数
func (t *Thread) Len() int {
	return len(t.nodes)
}

// Children 指定评论的直接回复
func (t *Thread) Children(id uint) []*Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return n.Replies
}

// Insert 增量插入一条新评论
// 不重建整棵树：父评论可解析时追加到其回复桶，否则追加到顶级序列。
// 重复id不插入，返回false
func (t *Thread) Insert(c model.Comment) bool {
	if _, ok := t.nodes[c.ID]; ok {
		return false
	}

	n := &Node{Comment: c}
	t.nodes[c.ID] = n

	if !c.IsRoot() {
		if parent, ok := t.nodes[*c.ParentID]; ok {
			n.parent = parent
			parent.Replies = append(parent.Replies, n)
			return true
		}
	}
	t.roots = append(t.roots, n)
	return true
}

// Remove 删除评论及其整棵子树
// 孤立的子树整体不再可达，不会把孙级回复重新挂到祖父节点上。
// 评论不存在时返回false
func (t *Thread) Remove(id uint) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}

	if n.parent != nil {
		n.parent.Replies = removeNode(n.parent.Replies, n)
	} else {
		t.roots = removeNode(t.roots, n)
	}

	// 迭代收集子树，整体从索引中清除
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(t.nodes, cur.Comment.ID)
		stack = append(stack, cur.Replies...)
	}
	return true
}

// RootOf 沿父链向上找到顶级评论
// 回复目标的归组以树本身为准，不依赖可能过期的回复状态缓存
func (t *Thread) RootOf(id uint) (*Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	for n.parent != nil {
		n = n.parent
	}
	return n, true
}

// Walk 深度优先遍历整棵树
// 使用显式栈实现，fn 收到节点与其真实深度；返回false时跳过该节点的子树
func (t *Thread) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}

	stack := make([]frame, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{t.roots[i], 0})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(f.node, f.depth) {
			continue
		}
		for i := len(f.node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Replies[i], f.depth + 1})
		}
	}
}

// IndentDepth 展示用缩进层级
func IndentDepth(depth int) int {
	if depth > MaxIndentDepth {
		return MaxIndentDepth
	}
	return depth
}

func removeNode(nodes []*Node, target *Node) []*Node {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}
