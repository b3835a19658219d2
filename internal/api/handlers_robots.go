package api

import (
	"net/http"
	"strings"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

type robotsResponse struct {
	Robots []core.RobotRecord `json:"robots"`
	Count  int                `json:"count"`
}

func (s *Server) handleListRobots(w http.ResponseWriter, r *http.Request) {
	robots, err := s.catalog.Robots(r.Context())
	if err != nil {
		s.logger.Error("list robots", "err", err)
		writeError(w, http.StatusInternalServerError, msgCatalogEmpty)
		return
	}
	writeJSON(w, http.StatusOK, robotsResponse{Robots: robots, Count: len(robots)})
}

func (s *Server) handleRobotCost(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	name, _ := fields["robot_name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: robot_name")
		return
	}

	robot, found, err := s.catalog.Robot(r.Context(), name)
	if err != nil {
		s.logger.Error("lookup robot", "robot", name, "err", err)
		writeError(w, http.StatusInternalServerError, msgCatalogEmpty)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Unknown robot: "+name)
		return
	}

	quote, err := analysis.QuoteRobotCost(robot, fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
