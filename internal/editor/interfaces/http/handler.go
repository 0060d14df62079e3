package http

import (
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LevelEditor/internal/editor/app"
	"LevelEditor/internal/shared/transport"
	"LevelEditor/modules/kit/errx"
	"LevelEditor/modules/kit/logx"
)

// DefaultHistoryLimit 是 /history 未指定 limit 时返回的条数。
const DefaultHistoryLimit = 20

type Handler struct {
	editor *app.EditorService
	log    logx.Logger
}

func NewHandler(editor *app.EditorService, log logx.Logger) *Handler {
	if log == nil {
		log = logx.Nop()
	}
	return &Handler{editor: editor, log: log}
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	lvl := group.Group("/level")
	lvl.GET("", h.View)
	lvl.GET("/status", h.Status)
	lvl.POST("/new", h.New)
	lvl.POST("/load", h.Load)
	lvl.POST("/save", h.Save)
	lvl.POST("/save-as", h.SaveAs)
	lvl.PUT("/tiles", h.SetTile)
	lvl.POST("/tiles/clear", h.ClearTile)
	lvl.POST("/entities", h.PutEntity)
	lvl.POST("/entities/clear", h.ClearEntities)

	group.GET("/levels", h.Levels)
	group.GET("/history", h.History)

	d := group.Group("/defs")
	d.GET("/tiles", h.Tiles)
	d.GET("/spawns", h.Spawns)
	d.POST("/reload", h.ReloadDefs)
}

func (h *Handler) View(c *gin.Context) {
	h.ok(c, h.editor.View())
}

func (h *Handler) Status(c *gin.Context) {
	h.ok(c, gin.H{"status": h.editor.Status()})
}

func (h *Handler) New(c *gin.Context) {
	h.ok(c, h.editor.New(c.Request.Context()))
}

func (h *Handler) Load(c *gin.Context) {
	var req PathReq
	if !h.bind(c, &req) {
		return
	}
	res, err := h.editor.Load(c.Request.Context(), req.Path)
	if err != nil {
		h.error(c, "level load", err)
		return
	}
	h.ok(c, res)
}

func (h *Handler) Save(c *gin.Context) {
	res, err := h.editor.Save(c.Request.Context())
	if err != nil {
		h.error(c, "level save", err)
		return
	}
	h.ok(c, res)
}

func (h *Handler) SaveAs(c *gin.Context) {
	var req PathReq
	if !h.bind(c, &req) {
		return
	}
	res, err := h.editor.SaveAs(c.Request.Context(), req.Path)
	if err != nil {
		h.error(c, "level save as", err)
		return
	}
	h.ok(c, res)
}

func (h *Handler) SetTile(c *gin.Context) {
	var req TileReq
	if !h.bind(c, &req) {
		return
	}
	view, err := h.editor.SetTile(*req.X, *req.Y, req.ID)
	if err != nil {
		h.error(c, "set tile", err)
		return
	}
	h.ok(c, view)
}

func (h *Handler) ClearTile(c *gin.Context) {
	var req CellReq
	if !h.bind(c, &req) {
		return
	}
	view, err := h.editor.ClearTile(*req.X, *req.Y)
	if err != nil {
		h.error(c, "clear tile", err)
		return
	}
	h.ok(c, view)
}

func (h *Handler) PutEntity(c *gin.Context) {
	var req EntityReq
	if !h.bind(c, &req) {
		return
	}
	place := h.editor.PlaceEntity
	if req.Append {
		place = h.editor.AddEntity
	}
	view, err := place(*req.X, *req.Y, req.ID, req.Extra)
	if err != nil {
		h.error(c, "put entity", err)
		return
	}
	h.ok(c, view)
}

func (h *Handler) ClearEntities(c *gin.Context) {
	var req CellReq
	if !h.bind(c, &req) {
		return
	}
	view, err := h.editor.ClearEntities(*req.X, *req.Y)
	if err != nil {
		h.error(c, "clear entities", err)
		return
	}
	h.ok(c, view)
}

func (h *Handler) Levels(c *gin.Context) {
	names, err := h.editor.Levels(c.Request.Context())
	if err != nil {
		h.error(c, "list levels", err)
		return
	}
	h.ok(c, names)
}

func (h *Handler) History(c *gin.Context) {
	limit := DefaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.fail(c, transport.InvalidParam, string(errx.CodeReqParamError), "limit 必须是正整数")
			return
		}
		limit = n
	}
	recs, err := h.editor.History(c.Request.Context(), limit)
	if err != nil {
		h.error(c, "save history", err)
		return
	}
	h.ok(c, recs)
}

func (h *Handler) Tiles(c *gin.Context) {
	h.ok(c, h.editor.Catalog().Tiles(c.Query("q")))
}

func (h *Handler) Spawns(c *gin.Context) {
	h.ok(c, h.editor.Catalog().Spawns(c.Query("q")))
}

func (h *Handler) ReloadDefs(c *gin.Context) {
	tiles, spawns := h.editor.ReloadDefs(c.Request.Context())
	h.ok(c, gin.H{"tiles": tiles, "spawns": spawns})
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, transport.InvalidParam, string(errx.CodeReqParamError), "参数有误")
		return false
	}
	return true
}

func (h *Handler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Success(data))
}

func (h *Handler) fail(c *gin.Context, code int, errCode, msg string) {
	c.JSON(nethttp.StatusOK, Error(code, errCode, msg))
}

func (h *Handler) error(c *gin.Context, action string, err error) {
	code, msg, errCode := handleError(c.Request.Context(), h.log, action, err)
	h.fail(c, code, errCode, msg)
}
