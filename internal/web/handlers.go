package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paravar/things-bridge/internal/scripting"
	"github.com/paravar/things-bridge/internal/things"
)

const maxQuerySize = 1 << 10 // 1KB

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleList(c *gin.Context) {
	name := c.Param("name")

	tasks, err := s.bridge.List(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, things.ErrUnknownList) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "unknown list: " + name,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"list":    name,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleTask(c *gin.Context) {
	id := c.Param("id")

	task, err := s.bridge.Task(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")

	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "query parameter required",
		})
		return
	}
	if len(query) > maxQuerySize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "query exceeds maximum size of 1KB",
		})
		return
	}

	tasks, err := s.bridge.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   query,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleTags(c *gin.Context) {
	tags, err := s.bridge.Tags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
		"count":   len(tags),
	})
}

func (s *Server) handleTagTasks(c *gin.Context) {
	name := c.Param("name")

	tasks, err := s.bridge.TasksByTag(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tag":     name,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleProjects(c *gin.Context) {
	projects, err := s.bridge.Projects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

func (s *Server) handleProjectTasks(c *gin.Context) {
	id := c.Param("id")

	tasks, err := s.bridge.ProjectTasks(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": id,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleAreas(c *gin.Context) {
	areas, err := s.bridge.Areas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"areas":   areas,
		"count":   len(areas),
	})
}

// createTaskRequest is the POST /tasks body.
type createTaskRequest struct {
	Title    string   `json:"title" binding:"required"`
	Notes    string   `json:"notes"`
	When     string   `json:"when"`
	Deadline string   `json:"deadline"`
	Tags     []string `json:"tags"`
	List     string   `json:"list"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	// The URL scheme offers no completion signal; accepted is the most
	// honest status the write path can report.
	s.writer.Add(scripting.AddCommand{
		Title:    req.Title,
		Notes:    req.Notes,
		When:     req.When,
		Deadline: req.Deadline,
		Tags:     req.Tags,
		List:     req.List,
	})

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	id := c.Param("id")

	// Verify the task exists so clients get a 404 instead of a silently
	// dropped command for a bad id.
	task, err := s.bridge.Task(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}

	s.writer.Complete(id, c.Query("auth_token"))

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}
