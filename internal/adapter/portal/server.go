// Package portal serves the facade state of the staff portal as JSON views.
package portal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"staff-portal/internal/app"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/viewstate"
)

var (
	adminRoles    = []string{role.SuperAdmin, role.Admin}
	backRoles     = []string{role.SuperAdmin, role.Admin, role.Backoffice}
	reviewerRoles = []string{role.SuperAdmin, role.Backoffice, role.BranchManager, role.Marketing}
)

type Server struct {
	app *app.Container
	log zerolog.Logger
}

func New(c *app.Container) *Server {
	return &Server{app: c, log: c.Log.With().Str("component", "portal").Logger()}
}

// outcome answers every facade operation: whether it succeeded and the
// screen state after it.
type outcome struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
	View any  `json:"view"`
}

type queryReq struct {
	Query string `json:"query"`
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}

func badBody(c echo.Context) error {
	return message(c, http.StatusBadRequest, "Invalid request")
}

func pathID(c echo.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return n, err == nil && n > 0
}

// Register mounts every portal route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.app.Registry, promhttp.HandlerOpts{})))

	e.POST("/session/login", s.login)
	e.POST("/session/logout", s.logout)
	e.GET("/session", s.me)

	e.GET("/dialog", s.dialog)
	e.POST("/dialog/close", s.closeDialog)
	e.GET("/error", s.currentError)
	e.DELETE("/error", s.closeError)

	v := e.Group("/views", s.requireSession)
	s.registerCatalog(v)
	s.registerAdmin(v.Group("", s.requireRole(adminRoles...)))
	s.registerLoans(v.Group("/loans", s.requireRole(backRoles...)))
	s.registerWorkplace(v.Group("/workplace", s.requireRole(reviewerRoles...)))
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"authenticated": s.app.Session.IsAuthenticated(),
		"time":          time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.app.Session.IsAuthenticated() {
			return message(c, http.StatusUnauthorized, "Authentication required")
		}
		return next(c)
	}
}

func (s *Server) requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.app.Session.HasAnyRole(roles...) {
				return message(c, http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	u, err := s.app.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		s.log.Info().Str("email", req.Email).Msg("login rejected")
		return message(c, http.StatusUnauthorized, viewstate.Message(err, "Login failed"))
	}
	s.log.Info().Int64("user_id", u.UserID).Msg("logged in")
	return c.JSON(http.StatusOK, u)
}

func (s *Server) logout(c echo.Context) error {
	if err := s.app.Session.Logout(c.Request().Context()); err != nil {
		s.log.Warn().Err(err).Msg("logout call failed, session cleared locally")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": s.app.Session.IsAuthenticated(),
		"user":          s.app.Session.User(),
		"roles":         s.app.Session.Roles(),
		"permissions":   s.app.Session.Permissions(),
	})
}

func (s *Server) dialog(c echo.Context) error {
	cfg, open := s.app.Dialog.Current()
	if !open {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) closeDialog(c echo.Context) error {
	var req struct {
		Result bool `json:"result"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if !s.app.Dialog.Close(req.Result) {
		return message(c, http.StatusNotFound, "No dialog is open")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) currentError(c echo.Context) error {
	msg, open := s.app.Errors.Message()
	if !open {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) closeError(c echo.Context) error {
	s.app.Errors.Close()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) registerWorkplace(g *echo.Group) {
	w := s.app.Workplace
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, w.View()) })
	g.POST("/load", func(c echo.Context) error {
		ctx := c.Request().Context()
		var eg errgroup.Group
		var pending, history bool
		eg.Go(func() error { pending = w.LoadPending(ctx); return nil })
		eg.Go(func() error { history = w.LoadHistory(ctx); return nil })
		_ = eg.Wait()
		return c.JSON(http.StatusOK, outcome{OK: pending && history, View: w.View()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		w.UpdatePendingQuery(req.Query)
		return c.JSON(http.StatusOK, w.View())
	})
	g.PUT("/history-query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		w.UpdateHistoryQuery(req.Query)
		return c.JSON(http.StatusOK, w.View())
	})
	g.POST("/:id/select", func(c echo.Context) error {
		id, ok := pathID(c)
		if !ok {
			return message(c, http.StatusBadRequest, "Invalid id")
		}
		applied := w.Select(c.Request().Context(), id)
		return c.JSON(http.StatusOK, outcome{OK: applied, View: w.View()})
	})
	g.DELETE("/selection", func(c echo.Context) error {
		w.ClearSelection()
		return c.JSON(http.StatusOK, w.View())
	})
	decide := func(act func(c echo.Context, note string) bool) echo.HandlerFunc {
		return func(c echo.Context) error {
			var req struct {
				Note string `json:"note"`
			}
			if err := c.Bind(&req); err != nil {
				return badBody(c)
			}
			ok := act(c, req.Note)
			return c.JSON(http.StatusOK, outcome{OK: ok, View: w.View()})
		}
	}
	g.POST("/approve", decide(func(c echo.Context, note string) bool { return w.Approve(c.Request().Context(), note) }))
	g.POST("/reject", decide(func(c echo.Context, note string) bool { return w.Reject(c.Request().Context(), note) }))
	g.DELETE("/error", func(c echo.Context) error {
		w.ClearError()
		return c.JSON(http.StatusOK, w.View())
	})
}
