package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"org-directory/internal/cache"
	"org-directory/internal/directory"
	"org-directory/internal/logger"
	"org-directory/internal/metrics"
	"org-directory/internal/model"
	"org-directory/internal/store"
)

// orgQuery：机构列表类接口共用的可选条件
type orgQuery struct {
	name     *string
	activity *string
	page     directory.Page
}

func parseOrgQuery(q url.Values) (orgQuery, error) {
	var o orgQuery
	var err error
	if o.name, err = optTextParam(q, "name"); err != nil {
		return o, err
	}
	if o.activity, err = optTextParam(q, "activity"); err != nil {
		return o, err
	}
	if o.page, err = pageParams(q); err != nil {
		return o, err
	}
	return o, nil
}

// filter：分类名先展开为子树 id 集合，再与其余条件组合
func (s *Server) filter(ctx context.Context, h store.Handle, o orgQuery) (directory.OrgFilter, error) {
	f := directory.OrgFilter{Name: o.name, Page: o.page}
	if o.activity != nil {
		ids, err := s.subtreeIDs(ctx, h, *o.activity)
		if err != nil {
			return f, err
		}
		f.ActivityIDs = ids
	}
	return f, nil
}

func (s *Server) subtreeIDs(ctx context.Context, h store.Handle, name string) ([]int64, error) {
	return cache.Fetch(ctx, s.cache, "subtree:"+name, func() ([]int64, error) {
		return directory.SubtreeIDsByName(ctx, h, name)
	})
}

// queryOrgs：在只读作用域内组装条件并查询；prepare 用于补充地址条件
func (s *Server) queryOrgs(w http.ResponseWriter, r *http.Request, route string, prepare func(context.Context, store.Handle, *directory.OrgFilter) error) {
	o, err := parseOrgQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	ctx := r.Context()
	var orgs []model.Organization
	err = s.view(ctx, func(h store.Handle) error {
		f, err := s.filter(ctx, h, o)
		if err != nil {
			return err
		}
		if prepare != nil {
			if err := prepare(ctx, h, &f); err != nil {
				return err
			}
		}
		orgs, err = directory.QueryOrganizations(ctx, h, f)
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	if len(orgs) == 0 {
		metrics.EmptyResultsTotal.WithLabelValues(route).Inc()
	}
	logger.L().Debug("directory_query", "route", route, "rows", len(orgs))
	writeJSON(w, http.StatusOK, orgsOut(orgs))
}

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	s.queryOrgs(w, r, "organizations", nil)
}

func (s *Server) organizationsAtAddress(w http.ResponseWriter, r *http.Request) {
	const route = "organizations_at_address"
	k, err := addressKeyParams(r.URL.Query())
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	s.queryOrgs(w, r, route, func(ctx context.Context, h store.Handle, f *directory.OrgFilter) error {
		id, err := directory.ResolveAddress(ctx, h, k)
		if err != nil {
			return err
		}
		f.AddressID = &id
		return nil
	})
}

func (s *Server) organizationsNearby(w http.ResponseWriter, r *http.Request) {
	const route = "organizations_nearby"
	g, err := geoParams(r.URL.Query())
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	s.queryOrgs(w, r, route, func(ctx context.Context, h store.Handle, f *directory.OrgFilter) error {
		ids, err := cache.Fetch(ctx, s.cache, "nearby_ids:"+geoKey(g), func() ([]int64, error) {
			return directory.AddressIDsWithinRadius(ctx, h, g)
		})
		if err != nil {
			return err
		}
		f.AddressIDs = ids
		return nil
	})
}

func (s *Server) getOrganization(w http.ResponseWriter, r *http.Request) {
	const route = "organization"
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, route, badParam("id must be a positive integer"))
		return
	}
	s.getOne(w, r, route, func(ctx context.Context, h store.Handle) (model.Organization, error) {
		return directory.GetOrganization(ctx, h, id)
	})
}

func (s *Server) getOrganizationByName(w http.ResponseWriter, r *http.Request) {
	const route = "organization_by_name"
	name, err := textParam(r.URL.Query(), "name")
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	s.getOne(w, r, route, func(ctx context.Context, h store.Handle) (model.Organization, error) {
		return directory.GetOrganizationByName(ctx, h, name)
	})
}

func (s *Server) getOne(w http.ResponseWriter, r *http.Request, route string, get func(context.Context, store.Handle) (model.Organization, error)) {
	ctx := r.Context()
	var org model.Organization
	err := s.view(ctx, func(h store.Handle) error {
		var err error
		org, err = get(ctx, h)
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	writeJSON(w, http.StatusOK, orgOut(org))
}

// geoKey：缓存键使用坐标与半径的完整精度，不做取整
func geoKey(g directory.GeoQuery) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(g.Lat) + ":" + f(g.Lon) + ":" + f(g.RadiusMeters)
}
