// 包 geo：球面距离与半径包围盒
// 约束：固定地球半径的球面近似（R=6371.0km，纬度 1° ≈ 111.32km），非大地测量精确模型。
package geo

import "math"

const (
	EarthRadiusKm = 6371.0
	KmPerDegree   = 111.32
	// 经度缩放下限，避免极点附近 cos(lat)→0 时除零
	cosEpsilon = 1e-6
	// 包围盒放大系数：111.32 略大于 R·π/180，不放大时正南北方向边缘点会被预过滤误剔除
	bboxPad = 1.01
)

// Point：WGS84 经纬度
type Point struct {
	Lat float64
	Lon float64
}

// Valid：纬度 [-90,90]，经度 [-180,180]，且非 NaN
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Haversine：两点球面距离，返回千米
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceMeters：两点距离（米）
func DistanceMeters(a, b Point) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon) * 1000
}

// LonRange：闭区间经度范围
type LonRange struct{ Min, Max float64 }

// BBox：半径包围盒
// Lon 为空表示经度不限（覆盖全部经度）；跨越 ±180 时拆成两段。
type BBox struct {
	MinLat, MaxLat float64
	Lon            []LonRange
}

// AllLon：经度方向不受限
func (b BBox) AllLon() bool { return len(b.Lon) == 0 }

// Contains：点是否落在包围盒内
func (b BBox) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.AllLon() {
		return true
	}
	for _, r := range b.Lon {
		if p.Lon >= r.Min && p.Lon <= r.Max {
			return true
		}
	}
	return false
}

// BoundingBox：围绕中心点、半径 radiusMeters 的矩形
// 约束：结果总是包含以 Haversine 计算距离 <= 半径的全部点；经度跨度按纬度带靠近极点一侧的 cos 缩放。
func BoundingBox(center Point, radiusMeters float64) BBox {
	radiusKm := radiusMeters / 1000 * bboxPad
	dLat := radiusKm / KmPerDegree
	b := BBox{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
	}
	if b.MinLat <= -90 || b.MaxLat >= 90 {
		// 覆盖极点，经度全开
		return b
	}
	edge := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	cos := math.Max(math.Cos(edge*math.Pi/180), cosEpsilon)
	dLon := radiusKm / (KmPerDegree * cos)
	if dLon >= 180 {
		return b
	}
	lo, hi := center.Lon-dLon, center.Lon+dLon
	switch {
	case lo < -180:
		b.Lon = []LonRange{{Min: -180, Max: hi}, {Min: lo + 360, Max: 180}}
	case hi > 180:
		b.Lon = []LonRange{{Min: lo, Max: 180}, {Min: -180, Max: hi - 360}}
	default:
		b.Lon = []LonRange{{Min: lo, Max: hi}}
	}
	return b
}
