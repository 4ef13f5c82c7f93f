package portal

import (
	"net/http"

	"github.com/labstack/echo/v4"

	branchdom "staff-portal/internal/domain/branch"
	productdom "staff-portal/internal/domain/product"
	userdom "staff-portal/internal/domain/user"
)

func (s *Server) registerCatalog(v *echo.Group) {
	p := s.app.Products
	g := v.Group("/products")
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, p.Snapshot()) })
	g.POST("/load", func(c echo.Context) error {
		ok := p.Load(c.Request().Context())
		return c.JSON(http.StatusOK, outcome{OK: ok, View: p.Snapshot()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		p.UpdateQuery(req.Query)
		return c.JSON(http.StatusOK, p.Snapshot())
	})
	g.POST("", func(c echo.Context) error {
		var req productdom.Request
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		out, ok := p.Create(c.Request().Context(), req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: p.Snapshot()})
	})
	g.PUT("/:id", func(c echo.Context) error {
		id, valid := pathID(c)
		var req productdom.Request
		if err := c.Bind(&req); !valid || err != nil {
			return badBody(c)
		}
		out, ok := p.Update(c.Request().Context(), id, req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: p.Snapshot()})
	})
	g.DELETE("/:id", func(c echo.Context) error {
		id, _ := pathID(c)
		item, found := p.Get(id)
		if !found {
			return message(c, http.StatusNotFound, "Product not found")
		}
		ok := p.Delete(c.Request().Context(), item)
		return c.JSON(http.StatusOK, outcome{OK: ok, View: p.Snapshot()})
	})
	g.DELETE("/error", func(c echo.Context) error {
		p.ClearError()
		return c.JSON(http.StatusOK, p.Snapshot())
	})

	b := s.app.Branches
	g = v.Group("/branches")
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, b.Snapshot()) })
	g.POST("/load", func(c echo.Context) error {
		ok := b.Load(c.Request().Context())
		return c.JSON(http.StatusOK, outcome{OK: ok, View: b.Snapshot()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		b.UpdateQuery(req.Query)
		return c.JSON(http.StatusOK, b.Snapshot())
	})
	g.POST("", func(c echo.Context) error {
		var req branchdom.Request
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		out, ok := b.Create(c.Request().Context(), req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: b.Snapshot()})
	})
	g.PUT("/:id", func(c echo.Context) error {
		id, valid := pathID(c)
		var req branchdom.Request
		if err := c.Bind(&req); !valid || err != nil {
			return badBody(c)
		}
		out, ok := b.Update(c.Request().Context(), id, req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: b.Snapshot()})
	})
	g.DELETE("/:id", func(c echo.Context) error {
		id, _ := pathID(c)
		item, found := b.Get(id)
		if !found {
			return message(c, http.StatusNotFound, "Branch not found")
		}
		ok := b.Delete(c.Request().Context(), item)
		return c.JSON(http.StatusOK, outcome{OK: ok, View: b.Snapshot()})
	})
	g.DELETE("/error", func(c echo.Context) error {
		b.ClearError()
		return c.JSON(http.StatusOK, b.Snapshot())
	})
}

func (s *Server) registerAdmin(v *echo.Group) {
	u := s.app.Users
	g := v.Group("/users")
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, u.View()) })
	g.POST("/load", func(c echo.Context) error {
		ctx := c.Request().Context()
		ok := u.Load(ctx)
		u.LoadSupportingData(ctx)
		return c.JSON(http.StatusOK, outcome{OK: ok, View: u.View()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		u.UpdateQuery(req.Query)
		return c.JSON(http.StatusOK, u.View())
	})
	g.POST("", func(c echo.Context) error {
		var req userdom.CreateRequest
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		out, ok := u.Create(c.Request().Context(), req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: u.View()})
	})
	g.PUT("/:id", func(c echo.Context) error {
		id, valid := pathID(c)
		var req userdom.UpdateRequest
		if err := c.Bind(&req); !valid || err != nil {
			return badBody(c)
		}
		out, ok := u.Update(c.Request().Context(), id, req)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: u.View()})
	})
	g.POST("/:id/status", func(c echo.Context) error {
		id, _ := pathID(c)
		item, found := u.Get(id)
		if !found {
			return message(c, http.StatusNotFound, "User not found")
		}
		ok := u.ToggleStatus(c.Request().Context(), item)
		return c.JSON(http.StatusOK, outcome{OK: ok, View: u.View()})
	})
	g.POST("/:id/roles", func(c echo.Context) error {
		id, valid := pathID(c)
		var req userdom.AssignRoleRequest
		if err := c.Bind(&req); !valid || err != nil {
			return badBody(c)
		}
		out, ok := u.AssignRole(c.Request().Context(), id, req.RoleID)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: u.View()})
	})
	g.DELETE("/:id/roles/:role", func(c echo.Context) error {
		id, _ := pathID(c)
		item, found := u.Get(id)
		if !found {
			return message(c, http.StatusNotFound, "User not found")
		}
		out, ok := u.RemoveRole(c.Request().Context(), item, c.Param("role"))
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: u.View()})
	})
	g.DELETE("/error", func(c echo.Context) error {
		u.ClearError()
		return c.JSON(http.StatusOK, u.View())
	})

	r := s.app.Roles
	g = v.Group("/roles")
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, r.View()) })
	g.POST("/load", func(c echo.Context) error {
		ctx := c.Request().Context()
		ok := r.Load(ctx)
		ok = r.LoadPermissions(ctx) && ok
		return c.JSON(http.StatusOK, outcome{OK: ok, View: r.View()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		r.UpdateQuery(req.Query)
		return c.JSON(http.StatusOK, r.View())
	})
	g.POST("/:id/edit", func(c echo.Context) error {
		id, valid := pathID(c)
		if !valid {
			return message(c, http.StatusBadRequest, "Invalid id")
		}
		r.Edit(id)
		return c.JSON(http.StatusOK, r.View())
	})
	g.DELETE("/edit", func(c echo.Context) error {
		r.CancelEdit()
		return c.JSON(http.StatusOK, r.View())
	})
	g.PUT("/:id/permissions", func(c echo.Context) error {
		id, valid := pathID(c)
		var req struct {
			PermissionIDs []int64 `json:"permissionIds"`
		}
		if err := c.Bind(&req); !valid || err != nil {
			return badBody(c)
		}
		out, ok := r.UpdatePermissions(c.Request().Context(), id, req.PermissionIDs)
		return c.JSON(http.StatusOK, outcome{OK: ok, Data: out, View: r.View()})
	})
	g.DELETE("/error", func(c echo.Context) error {
		r.ClearError()
		return c.JSON(http.StatusOK, r.View())
	})
}

func (s *Server) registerLoans(g *echo.Group) {
	l := s.app.Loans
	g.GET("", func(c echo.Context) error { return c.JSON(http.StatusOK, l.View()) })
	g.POST("/load", func(c echo.Context) error {
		ok := l.Load(c.Request().Context())
		return c.JSON(http.StatusOK, outcome{OK: ok, View: l.View()})
	})
	g.PUT("/query", func(c echo.Context) error {
		var req queryReq
		if err := c.Bind(&req); err != nil {
			return badBody(c)
		}
		l.UpdateQuery(req.Query)
		return c.JSON(http.StatusOK, l.View())
	})
	g.POST("/:id/select", func(c echo.Context) error {
		id, valid := pathID(c)
		if !valid {
			return message(c, http.StatusBadRequest, "Invalid id")
		}
		applied := l.Select(c.Request().Context(), id)
		return c.JSON(http.StatusOK, outcome{OK: applied, View: l.View()})
	})
	g.DELETE("/selection", func(c echo.Context) error {
		l.ClearSelection()
		return c.JSON(http.StatusOK, l.View())
	})
	g.GET("/document", func(c echo.Context) error {
		doc, ok := l.Download(c.Request().Context(), c.QueryParam("path"))
		if !ok {
			return c.JSON(http.StatusBadGateway, outcome{View: l.View()})
		}
		return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
	})
	g.DELETE("/error", func(c echo.Context) error {
		l.ClearError()
		return c.JSON(http.StatusOK, l.View())
	})
}
