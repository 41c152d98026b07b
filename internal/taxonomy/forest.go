// 包 taxonomy：业务分类森林的显式邻接结构与子树闭包
package taxonomy

import "sort"

// Edge：节点及其父节点（Parent 为 0 表示根）
type Edge struct {
	ID     int64
	Parent int64
}

// Forest：父节点 → 子节点列表
// 约束：只保存 id 关系，不持有节点对象；输入即使含环也能安全遍历。
type Forest struct {
	children map[int64][]int64
	nodes    map[int64]struct{}
}

// Build：由边列表构建森林，子节点按 id 升序
func Build(edges []Edge) *Forest {
	f := &Forest{children: make(map[int64][]int64), nodes: make(map[int64]struct{}, len(edges))}
	for _, e := range edges {
		f.nodes[e.ID] = struct{}{}
		f.children[e.Parent] = append(f.children[e.Parent], e.ID)
	}
	for k := range f.children {
		ids := f.children[k]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return f
}

// Len：节点数
func (f *Forest) Len() int { return len(f.nodes) }

// Children：直接子节点
func (f *Forest) Children(id int64) []int64 { return f.children[id] }

// Roots：根节点
func (f *Forest) Roots() []int64 {
	return append([]int64(nil), f.children[0]...)
}

// Subtree：种子节点自身及其全部后代（广度优先，visited 去重），结果按 id 升序
// 约束：不在森林中的种子原样保留；每个节点至多访问一次，有环输入也会终止。
func (f *Forest) Subtree(seeds ...int64) []int64 {
	if len(seeds) == 0 {
		return []int64{}
	}
	visited := make(map[int64]struct{}, len(seeds))
	queue := make([]int64, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := visited[s]; ok {
			continue
		}
		visited[s] = struct{}{}
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range f.children[cur] {
			if _, ok := visited[c]; ok {
				continue
			}
			visited[c] = struct{}{}
			queue = append(queue, c)
		}
	}
	out := make([]int64, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
