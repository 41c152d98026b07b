package api

import (
	"org-directory/internal/directory"
	"org-directory/internal/model"
	"org-directory/internal/taxonomy"
)

// 文档注释：机构对外结构
// 背景：电话与分类只输出文本，地址完整输出；与列表、详情接口共用。
// 约束：字段稳定；Phones、Activities 为空时输出 [] 而非 null。
type organizationOut struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Address    model.Address `json:"address"`
	Phones     []string      `json:"phones"`
	Activities []string      `json:"activities"`
}

type organizationsResponse struct {
	Organizations []organizationOut `json:"organizations"`
}

type addressesResponse struct {
	Addresses []model.Address `json:"addresses"`
}

type nearbyResponse struct {
	Addresses []directory.AddressHit `json:"addresses"`
}

type activitiesResponse struct {
	Activities []taxonomy.Node `json:"activities"`
}

type subtreeResponse struct {
	Name string  `json:"name"`
	IDs  []int64 `json:"ids"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func orgOut(o model.Organization) organizationOut {
	return organizationOut{
		ID:         o.ID,
		Name:       o.Name,
		Address:    o.Address,
		Phones:     o.PhoneNumbers(),
		Activities: o.ActivityNames(),
	}
}

func orgsOut(orgs []model.Organization) organizationsResponse {
	out := make([]organizationOut, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, orgOut(o))
	}
	return organizationsResponse{Organizations: out}
}
