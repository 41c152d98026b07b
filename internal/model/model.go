// 包 model：目录服务的实体结构（地址、业务分类、机构、电话），只承载数据，不含查询逻辑
package model

// Address：物理地址
// 约束：(country, city, street, house, building) 在文本字段忽略大小写后唯一；building 为空视为独立取值；
// Lat/Lon 同时存在或同时为空。
type Address struct {
	ID       int64    `json:"id" yaml:"id"`
	Country  string   `json:"country" yaml:"country"`
	City     string   `json:"city" yaml:"city"`
	Street   string   `json:"street" yaml:"street"`
	House    int      `json:"house" yaml:"house"`
	Building *int     `json:"building" yaml:"building,omitempty"`
	Lat      *float64 `json:"lat" yaml:"lat,omitempty"`
	Lon      *float64 `json:"lon" yaml:"lon,omitempty"`
}

// HasCoords：坐标是否完整
func (a Address) HasCoords() bool { return a.Lat != nil && a.Lon != nil }

// Activity：业务分类树节点，ParentID 为空表示根
type Activity struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID *int64 `json:"parent_id" yaml:"parent_id,omitempty"`
}

// Phone：机构电话，同一机构内号码唯一
type Phone struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Phone          string `json:"phone"`
}

// Organization：机构（急加载形态）
// 约束：对外返回时 Address、Phones、Activities 均已填充；Phones 按号码升序，Activities 按名称升序。
type Organization struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	AddressID  int64      `json:"address_id"`
	Address    Address    `json:"address"`
	Phones     []Phone    `json:"phones"`
	Activities []Activity `json:"activities"`
}

// PhoneNumbers：仅号码文本
func (o Organization) PhoneNumbers() []string {
	out := make([]string, 0, len(o.Phones))
	for _, p := range o.Phones {
		out = append(out, p.Phone)
	}
	return out
}

// ActivityNames：仅分类名称
func (o Organization) ActivityNames() []string {
	out := make([]string, 0, len(o.Activities))
	for _, a := range o.Activities {
		out = append(out, a.Name)
	}
	return out
}
