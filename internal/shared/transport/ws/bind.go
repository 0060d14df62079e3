package ws

import (
	"encoding/json"
	"errors"

	"LevelEditor/internal/shared/transport"
)

// BindJSON 将 WsMsgReq.Body.Msg 反序列化到目标结构体。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	raw, err := json.Marshal(req.Body.Msg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// ReplyOK 写入成功响应。
func ReplyOK(resp *WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

// ReplyErr 按错误类型写入失败响应，Msg 是错误文本。
func ReplyErr(resp *WsMsgResp, err error) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.BizCodeOf(err)
	resp.Body.Msg = err.Error()
}
