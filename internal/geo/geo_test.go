package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// destination：沿方位角 bearing（度）移动 distKm 后的点（球面）
func destination(p Point, bearing, distKm float64) Point {
	d := distKm / EarthRadiusKm
	b := bearing * math.Pi / 180
	lat1 := p.Lat * math.Pi / 180
	lon1 := p.Lon * math.Pi / 180
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(b))
	lon2 := lon1 + math.Atan2(math.Sin(b)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	lon := math.Mod(lon2*180/math.Pi+540, 360) - 180
	return Point{Lat: lat2 * 180 / math.Pi, Lon: lon}
}

func TestHaversine(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(55.75, 37.61, 55.75, 37.61))
	// Moscow -> Saint Petersburg
	assert.InDelta(t, 633.2, Haversine(55.75, 37.61, 59.9343, 30.3351), 0.5)
	// one degree of latitude on R=6371 km
	assert.InDelta(t, 111.195, Haversine(0, 0, 1, 0), 0.001)
	assert.InDelta(t, 1000, DistanceMeters(Point{55.75, 37.61}, Point{55.75899, 37.61}), 1)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{90, 180}.Valid())
	assert.True(t, Point{-90, -180}.Valid())
	assert.False(t, Point{90.1, 0}.Valid())
	assert.False(t, Point{0, -180.1}.Valid())
	assert.False(t, Point{math.NaN(), 0}.Valid())
}

func TestBoundingBox_ContainsDisc(t *testing.T) {
	centers := []Point{{55.75, 37.61}, {0, 0}, {-33.86, 151.21}, {78.22, 15.65}, {89.5, 10}, {10, 179.99}, {-10, -179.95}}
	for _, c := range centers {
		for _, r := range []float64{1, 1000, 50_000, 500_000} {
			box := BoundingBox(c, r)
			for bearing := 0.0; bearing < 360; bearing += 7.5 {
				p := destination(c, bearing, r/1000*0.9999)
				require.True(t, box.Contains(p), "center=%v r=%v bearing=%v p=%v box=%+v", c, r, bearing, p, box)
			}
		}
	}
}

func TestBoundingBox_AntimeridianSplit(t *testing.T) {
	box := BoundingBox(Point{Lat: 0, Lon: 179.99}, 10_000)
	require.Len(t, box.Lon, 2)
	assert.True(t, box.Contains(Point{Lat: 0, Lon: -179.99}))
	assert.False(t, box.Contains(Point{Lat: 0, Lon: 0}))

	box = BoundingBox(Point{Lat: 0, Lon: -179.99}, 10_000)
	require.Len(t, box.Lon, 2)
	assert.True(t, box.Contains(Point{Lat: 0, Lon: 179.99}))
}

func TestBoundingBox_PoleOpensLongitude(t *testing.T) {
	box := BoundingBox(Point{Lat: 89.99, Lon: 0}, 5_000)
	assert.True(t, box.AllLon())
	assert.Equal(t, 90.0, box.MaxLat)
	assert.True(t, box.Contains(Point{Lat: 89.995, Lon: 179}))
}

func TestBoundingBox_Excludes(t *testing.T) {
	box := BoundingBox(Point{Lat: 55.75, Lon: 37.61}, 1000)
	assert.False(t, box.AllLon())
	assert.False(t, box.Contains(Point{Lat: 59.93, Lon: 30.33}))
	assert.False(t, box.Contains(Point{Lat: 55.80, Lon: 37.61}))
}
