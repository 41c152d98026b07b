package directory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinRadius_NearestFirst(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	hits, err := WithinRadius(ctx, st, GeoQuery{Lat: 55.75, Lon: 37.61, RadiusMeters: 1000})
	require.NoError(t, err)
	// id 6 lies 999.6 m due north, just inside the radius
	assert.Equal(t, []int64{2, 1, 6}, hitIDs(hits))
	assert.Equal(t, 0.0, hits[0].DistanceMeters)
	for _, h := range hits {
		assert.LessOrEqual(t, h.DistanceMeters, 1000.0)
	}

	hits, err = WithinRadius(ctx, st, GeoQuery{Lat: 55.75, Lon: 37.61, RadiusMeters: 2000})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 6, 3}, hitIDs(hits))
}

func TestWithinRadius_ExcludesAddressesWithoutCoordinates(t *testing.T) {
	st := setupTestStore(t)

	hits, err := WithinRadius(context.Background(), st, GeoQuery{Lat: 55.75, Lon: 37.61, RadiusMeters: 20_000_000})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 6}, hitIDs(hits))
	for _, h := range hits {
		assert.True(t, h.Address.HasCoords())
	}
}

func TestWithinRadius_Pagination(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	q := GeoQuery{Lat: 55.75, Lon: 37.61, RadiusMeters: 2000}

	q.Page = Paged(2, 1)
	hits, err := WithinRadius(ctx, st, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 6}, hitIDs(hits))

	q.Page = Page{Offset: intPtr(3)}
	hits, err = WithinRadius(ctx, st, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, hitIDs(hits))

	q.Page = Page{Offset: intPtr(10)}
	hits, err = WithinRadius(ctx, st, q)
	require.NoError(t, err)
	assert.Empty(t, hits)

	q.Page = Page{Limit: intPtr(1)}
	hits, err = WithinRadius(ctx, st, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, hitIDs(hits))
}

func TestWithinRadius_InvalidInputRejectedBeforeStorage(t *testing.T) {
	st := setupTestStore(t)
	// closed store: a storage round trip would surface as ErrStorage
	require.NoError(t, st.Close())
	ctx := context.Background()

	cases := map[string]GeoQuery{
		"lat_high":        {Lat: 90.01, Lon: 0, RadiusMeters: 10},
		"lat_low":         {Lat: -91, Lon: 0, RadiusMeters: 10},
		"lon_high":        {Lat: 0, Lon: 180.5, RadiusMeters: 10},
		"lon_low":         {Lat: 0, Lon: -181, RadiusMeters: 10},
		"radius_zero":     {Lat: 0, Lon: 0, RadiusMeters: 0},
		"radius_negative": {Lat: 0, Lon: 0, RadiusMeters: -1},
		"lat_nan":         {Lat: math.NaN(), Lon: 0, RadiusMeters: 10},
		"radius_inf":      {Lat: 0, Lon: 0, RadiusMeters: math.Inf(1)},
		"negative_limit":  {Lat: 0, Lon: 0, RadiusMeters: 10, Page: Page{Limit: intPtr(-1)}},
		"negative_offset": {Lat: 0, Lon: 0, RadiusMeters: 10, Page: Page{Offset: intPtr(-2)}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := WithinRadius(ctx, st, q)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestWithinRadius_BoundaryValuesAccepted(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for _, q := range []GeoQuery{
		{Lat: 90, Lon: 180, RadiusMeters: 1},
		{Lat: -90, Lon: -180, RadiusMeters: 1},
	} {
		hits, err := WithinRadius(ctx, st, q)
		require.NoError(t, err)
		assert.Empty(t, hits)
	}
}

func TestAddressIDsWithinRadius(t *testing.T) {
	st := setupTestStore(t)

	ids, err := AddressIDsWithinRadius(context.Background(), st, GeoQuery{Lat: 59.93, Lon: 30.33, RadiusMeters: 5000})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids)
}
