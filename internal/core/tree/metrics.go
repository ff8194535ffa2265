package tree

import "github.com/agenthands/nasab/internal/core/model"

// Walk visits nodes depth-first in child order. Returning false from fn
// skips the node's subtree.
func Walk(root *model.TreeNode, fn func(n *model.TreeNode) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

func Count(root *model.TreeNode) int {
	count := 0
	Walk(root, func(*model.TreeNode) bool {
		count++
		return true
	})
	return count
}

func MaxLevel(root *model.TreeNode) int {
	deepest := 0
	Walk(root, func(n *model.TreeNode) bool {
		if n.Level > deepest {
			deepest = n.Level
		}
		return true
	})
	return deepest
}
