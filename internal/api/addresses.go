package api

import (
	"net/http"
	"strconv"

	"org-directory/internal/cache"
	"org-directory/internal/directory"
	"org-directory/internal/metrics"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

func (s *Server) listAddresses(w http.ResponseWriter, r *http.Request) {
	const route = "addresses"
	ctx := r.Context()
	var addrs []model.Address
	err := s.view(ctx, func(h store.Handle) error {
		var err error
		addrs, err = directory.ListAddresses(ctx, h)
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	if addrs == nil {
		addrs = []model.Address{}
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: addrs})
}

func (s *Server) addressesNearby(w http.ResponseWriter, r *http.Request) {
	const route = "addresses_nearby"
	q := r.URL.Query()
	g, err := geoParams(q)
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	if g.Page, err = pageParams(q); err != nil {
		writeError(w, r, route, err)
		return
	}
	key := "nearby:" + geoKey(g) + ":" + pageKey(g.Page)
	ctx := r.Context()
	var hits []directory.AddressHit
	err = s.view(ctx, func(h store.Handle) error {
		var err error
		hits, err = cache.Fetch(ctx, s.cache, key, func() ([]directory.AddressHit, error) {
			return directory.WithinRadius(ctx, h, g)
		})
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	if len(hits) == 0 {
		metrics.EmptyResultsTotal.WithLabelValues(route).Inc()
		hits = []directory.AddressHit{}
	}
	writeJSON(w, http.StatusOK, nearbyResponse{Addresses: hits})
}

func pageKey(p directory.Page) string {
	f := func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	}
	return f(p.Limit) + ":" + f(p.Offset)
}
