package api

import (
	"net/http"

	"org-directory/internal/directory"
	"org-directory/internal/store"
	"org-directory/internal/taxonomy"
)

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	const route = "activities"
	ctx := r.Context()
	var tree []taxonomy.Node
	err := s.view(ctx, func(h store.Handle) error {
		var err error
		tree, err = directory.ActivityTree(ctx, h)
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	if tree == nil {
		tree = []taxonomy.Node{}
	}
	writeJSON(w, http.StatusOK, activitiesResponse{Activities: tree})
}

func (s *Server) activitySubtree(w http.ResponseWriter, r *http.Request) {
	const route = "activity_subtree"
	name, err := textParam(r.URL.Query(), "name")
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	ctx := r.Context()
	var ids []int64
	err = s.view(ctx, func(h store.Handle) error {
		var err error
		ids, err = s.subtreeIDs(ctx, h, name)
		return err
	})
	if err != nil {
		writeError(w, r, route, err)
		return
	}
	writeJSON(w, http.StatusOK, subtreeResponse{Name: name, IDs: ids})
}
