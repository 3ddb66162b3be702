package http

import (
	"net/http"
	"strings"

	"github.com/giannigrespan/pfin/internal/core"
)

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.MemberA.Name) == "" ||
		strings.TrimSpace(req.MemberB.Name) == "" {
		writeError(w, http.StatusBadRequest, "name and both member names are required")
		return
	}

	h, err := s.repo.CreateHousehold(r.Context(), core.Household{
		Name:    req.Name,
		MemberA: core.Member{Name: req.MemberA.Name, Email: req.MemberA.Email},
		MemberB: core.Member{Name: req.MemberB.Name, Email: req.MemberB.Email},
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHouseholdResponse(h))
}

func (s *Server) handleListHouseholds(w http.ResponseWriter, r *http.Request) {
	households, err := s.repo.ListHouseholds(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]householdResponse, 0, len(households))
	for _, h := range households {
		out = append(out, toHouseholdResponse(h))
	}
	writeJSON(w, http.StatusOK, out)
}
