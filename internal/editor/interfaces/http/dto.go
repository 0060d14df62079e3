package http

// Response 是所有接口的统一响应体。code 为 0 表示成功。
type Response struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	ErrCode string `json:"err_code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: 0, Msg: "ok", Data: data}
}

func Error(code int, errCode, msg string) Response {
	return Response{Code: code, Msg: msg, ErrCode: errCode}
}

type CellReq struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

type TileReq struct {
	CellReq
	ID uint16 `json:"id"`
}

// EntityReq 的 id/extra 是文本，接受 0x 等进制前缀。Append 为 true 时追加，否则替换整个格子。
type EntityReq struct {
	CellReq
	ID     string `json:"id" binding:"required"`
	Extra  string `json:"extra"`
	Append bool   `json:"append"`
}

type PathReq struct {
	Path string `json:"path" binding:"required"`
}
