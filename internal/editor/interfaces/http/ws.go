package http

import (
	"context"

	"LevelEditor/internal/shared/transport/ws"
)

// RegisterWS 注册 websocket 上的只读查询：level.view、level.status、defs.tiles、defs.spawns。
func (h *Handler) RegisterWS(r *ws.Router) {
	lvl := r.Group("level")
	lvl.Handle("view", func(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
		ws.ReplyOK(resp, h.editor.View())
	})
	lvl.Handle("status", func(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
		ws.ReplyOK(resp, h.editor.Status())
	})

	d := r.Group("defs")
	d.Handle("tiles", func(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
		var q struct {
			Q string `json:"q"`
		}
		_ = ws.BindJSON(req, &q)
		ws.ReplyOK(resp, h.editor.Catalog().Tiles(q.Q))
	})
	d.Handle("spawns", func(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
		var q struct {
			Q string `json:"q"`
		}
		_ = ws.BindJSON(req, &q)
		ws.ReplyOK(resp, h.editor.Catalog().Spawns(q.Q))
	})
}
