package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"foodtruck-ordering/internal/domain"
	menusvc "foodtruck-ordering/internal/service/menu"
	"github.com/gin-gonic/gin"
)

type menuResponse struct {
	Availability domain.Availability `json:"availability"`
	Categories   []domain.Category   `json:"categories"`
}

func (h *handlers) activeSchedule(c *gin.Context) {
	av, err := h.deps.ScheduleSvc.Current(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

// activeMenu accepts ?search= and repeated or comma separated ?category= ids.
func (h *handlers) activeMenu(c *gin.Context) {
	filter := menusvc.Filter{Search: c.Query("search")}
	for _, raw := range c.QueryArray("category") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				badRequest(c, "category must be numeric")
				return
			}
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	ctx := c.Request.Context()
	av, err := h.deps.ScheduleSvc.Current(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	cats, err := h.deps.MenuSvc.ActiveMenu(ctx, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	c.JSON(http.StatusOK, menuResponse{Availability: av, Categories: cats})
}

func (h *handlers) menuItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.deps.MenuSvc.Item(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
