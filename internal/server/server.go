package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/nasab/internal/core"
	"github.com/agenthands/nasab/internal/core/model"
	"github.com/agenthands/nasab/internal/logger"
)

type Server struct {
	Service *core.Service
	Log     *logger.Logger
}

func NewServer(svc *core.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		Service: svc,
		Log:     log.With("component", "Server"),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/resolve", s.Resolve)
	r.POST("/similar", s.FindSimilar)
	r.POST("/groups", s.CreateGroup)
	r.GET("/groups/:id/tree", s.Tree)
	r.POST("/groups/:id/members", s.AddMember)

	return r
}

type ResolveRequest struct {
	GroupID string             `json:"group_id"`
	Person  model.PersonRecord `json:"person"`
}

func (s *Server) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GroupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	decision, err := s.Service.Resolve(c.Request.Context(), req.GroupID, req.Person)
	if err != nil {
		s.fail(c, "resolve", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": decision})
}

type SimilarRequest struct {
	GroupID   string             `json:"group_id"`
	Person    model.PersonRecord `json:"person"`
	Threshold int                `json:"threshold"`
}

func (s *Server) FindSimilar(c *gin.Context) {
	var req SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GroupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Threshold > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be at most 100"})
		return
	}

	matches, err := s.Service.FindSimilar(c.Request.Context(), req.GroupID, req.Person, req.Threshold)
	if err != nil {
		s.fail(c, "find similar", err)
		return
	}
	if matches == nil {
		matches = []model.MatchCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

type CreateGroupRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

func (s *Server) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := s.Service.CreateGroup(c.Request.Context(), req.ID, req.Name, req.ParentID); err != nil {
		s.fail(c, "create group", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "id": req.ID})
}

// Tree returns the federated tree by default; scope=group limits it to the
// requested group.
func (s *Server) Tree(c *gin.Context) {
	groupID := c.Param("id")

	if c.Query("scope") == "group" {
		root, stats, err := s.Service.GroupTree(c.Request.Context(), groupID)
		if err != nil {
			s.fail(c, "group tree", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"root_group_id": groupID, "tree": root, "stats": stats})
		return
	}

	res, err := s.Service.FederatedTree(c.Request.Context(), groupID)
	if err != nil {
		s.fail(c, "federated tree", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type AddMemberRequest struct {
	Person model.PersonRecord `json:"person"`
	Force  bool               `json:"force"`
}

func (s *Server) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	decision, saved, err := s.Service.AddMember(c.Request.Context(), c.Param("id"), req.Person, req.Force)
	if err != nil {
		s.fail(c, "add member", err)
		return
	}
	if saved == nil {
		c.JSON(http.StatusConflict, gin.H{"decision": decision})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"decision": decision, "person": saved})
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", "op", op, "path", c.FullPath(), "error", err)
	} else {
		s.Log.Debug("request rejected", "op", op, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoRoot), errors.Is(err, model.ErrHeadNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrExternalLoad):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
