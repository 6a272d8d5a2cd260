package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paravar/things-bridge/internal/scripting"
	"github.com/paravar/things-bridge/internal/things"
)

// Bridge is the read facade the handlers consume. Satisfied by
// *things.Store; mocked in tests.
type Bridge interface {
	List(ctx context.Context, name string) ([]things.Task, error)
	Task(ctx context.Context, id string) (*things.Task, error)
	Search(ctx context.Context, q string) ([]things.Task, error)
	TasksByTag(ctx context.Context, name string) ([]things.Task, error)
	ProjectTasks(ctx context.Context, projectID string) ([]things.Task, error)
	Projects(ctx context.Context) ([]things.Project, error)
	Areas(ctx context.Context) ([]things.Area, error)
	Tags(ctx context.Context) ([]things.Tag, error)
}

// Writer is the best-effort write path. Satisfied by
// *scripting.Client.
type Writer interface {
	Add(cmd scripting.AddCommand)
	Complete(id, authToken string)
}

// Server is the things-bridge HTTP server
type Server struct {
	bridge Bridge
	writer Writer
	token  string
	router *gin.Engine
}

// NewServer creates a new server over the read facade. An empty token
// disables authentication.
func NewServer(bridge Bridge, writer Writer, token string) *Server {
	router := gin.Default()

	s := &Server{
		bridge: bridge,
		writer: writer,
		token:  token,
		router: router,
	}

	s.register(router)
	return s
}

func (s *Server) register(router *gin.Engine) {
	router.GET("/health", s.handleHealth)

	api := router.Group("/", s.requireToken)
	{
		api.GET("/lists/:name", s.handleList)
		api.GET("/tasks/:id", s.handleTask)
		api.GET("/search", s.handleSearch)
		api.GET("/tags", s.handleTags)
		api.GET("/tags/:name/tasks", s.handleTagTasks)
		api.GET("/projects", s.handleProjects)
		api.GET("/projects/:id/tasks", s.handleProjectTasks)
		api.GET("/areas", s.handleAreas)

		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)
	}
}

// Run starts the server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// requireToken enforces bearer authentication when a token is
// configured.
func (s *Server) requireToken(c *gin.Context) {
	if s.token == "" {
		return
	}

	header := c.GetHeader("Authorization")
	presented := strings.TrimPrefix(header, "Bearer ")
	if header == presented || subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "invalid or missing bearer token",
		})
	}
}
