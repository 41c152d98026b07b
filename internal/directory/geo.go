package directory

import (
	"context"
	"math"
	"sort"
	"strings"

	"org-directory/internal/geo"
	"org-directory/internal/logger"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

// GeoQuery：半径检索参数
type GeoQuery struct {
	Lat          float64
	Lon          float64
	RadiusMeters float64
	Page         Page
}

// AddressHit：命中的地址及其到查询点的距离（米）
type AddressHit struct {
	Address        model.Address `json:"address"`
	DistanceMeters float64       `json:"distance_m"`
}

func (q GeoQuery) validate(op string) error {
	if math.IsNaN(q.Lat) || q.Lat < -90 || q.Lat > 90 {
		return invalid(op, "lat must be within [-90, 90], got %v", q.Lat)
	}
	if math.IsNaN(q.Lon) || q.Lon < -180 || q.Lon > 180 {
		return invalid(op, "lon must be within [-180, 180], got %v", q.Lon)
	}
	if math.IsNaN(q.RadiusMeters) || math.IsInf(q.RadiusMeters, 0) || q.RadiusMeters <= 0 {
		return invalid(op, "radius must be > 0, got %v", q.RadiusMeters)
	}
	return q.Page.validate(op)
}

// WithinRadius：半径检索（包围盒预过滤 → Haversine 精确判定 → 距离升序 → 分页）
// 约束：无坐标的地址永远不返回；距离相等时按地址 id 升序；距离 <= 半径视为命中。
func WithinRadius(ctx context.Context, h store.Handle, q GeoQuery) ([]AddressHit, error) {
	const op = "within_radius"
	if err := q.validate(op); err != nil {
		return nil, err
	}
	center := geo.Point{Lat: q.Lat, Lon: q.Lon}
	box := geo.BoundingBox(center, q.RadiusMeters)
	sqlText, args := bboxQuery(box)
	rows, err := h.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, storage(op, err)
	}
	cands, err := scanAddresses(rows)
	if err != nil {
		return nil, storage(op, err)
	}
	hits := make([]AddressHit, 0, len(cands))
	for _, a := range cands {
		if !a.HasCoords() {
			continue
		}
		d := geo.DistanceMeters(center, geo.Point{Lat: *a.Lat, Lon: *a.Lon})
		if d <= q.RadiusMeters {
			hits = append(hits, AddressHit{Address: a, DistanceMeters: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].DistanceMeters != hits[j].DistanceMeters {
			return hits[i].DistanceMeters < hits[j].DistanceMeters
		}
		return hits[i].Address.ID < hits[j].Address.ID
	})
	logger.L().Debug("geo_search", "lat", q.Lat, "lon", q.Lon, "radius_m", q.RadiusMeters, "candidates", len(cands), "hits", len(hits))
	return apply(q.Page, hits), nil
}

// AddressIDsWithinRadius：仅返回命中地址 id（保持距离顺序），供机构查询使用
func AddressIDsWithinRadius(ctx context.Context, h store.Handle, q GeoQuery) ([]int64, error) {
	hits, err := WithinRadius(ctx, h, q)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.Address.ID)
	}
	return ids, nil
}

func bboxQuery(b geo.BBox) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + addressColumns + ` FROM addresses a
        WHERE a.lat IS NOT NULL AND a.lon IS NOT NULL
          AND a.lat >= ? AND a.lat <= ?`)
	args := []any{b.MinLat, b.MaxLat}
	if !b.AllLon() {
		parts := make([]string, 0, len(b.Lon))
		for _, r := range b.Lon {
			parts = append(parts, "(a.lon >= ? AND a.lon <= ?)")
			args = append(args, r.Min, r.Max)
		}
		sb.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
	}
	sb.WriteString(" ORDER BY a.id")
	return sb.String(), args
}
