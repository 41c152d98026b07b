package taxonomy

import (
	"sort"

	"org-directory/internal/model"
)

// Node：带名称的树形输出
type Node struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Children []Node `json:"children,omitempty"`
}

// Tree：将分类列表组装为森林，同级按名称升序（同名按 id）
// 约束：父节点缺失的分类视为根；环上的节点不会被重复展开。
func Tree(acts []model.Activity) []Node {
	byID := make(map[int64]model.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}
	kids := make(map[int64][]model.Activity)
	for _, a := range acts {
		var p int64
		if a.ParentID != nil {
			if _, ok := byID[*a.ParentID]; ok {
				p = *a.ParentID
			}
		}
		kids[p] = append(kids[p], a)
	}
	for k := range kids {
		l := kids[k]
		sort.Slice(l, func(i, j int) bool {
			if l[i].Name != l[j].Name {
				return l[i].Name < l[j].Name
			}
			return l[i].ID < l[j].ID
		})
	}
	seen := make(map[int64]bool, len(acts))
	var build func(parent int64) []Node
	build = func(parent int64) []Node {
		var out []Node
		for _, a := range kids[parent] {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			out = append(out, Node{ID: a.ID, Name: a.Name, Children: build(a.ID)})
		}
		return out
	}
	return build(0)
}
