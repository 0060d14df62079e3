package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"LevelEditor/modules/kit/logx"
)

const (
	outQueueSize = 256
	writeWait    = 5 * time.Second
)

// Conn 是一个 websocket 连接：一个读协程分发请求，一个写协程串行写出响应和推送。
type Conn struct {
	conn      *websocket.Conn
	router    *Router
	outChan   chan *RespBody
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
	// ctx 随连接关闭取消，作为每个请求 context 的父 context
	ctx    context.Context
	cancel context.CancelFunc
}

func newConn(wsConn *websocket.Conn, r *Router, l logx.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	return &Conn{
		conn:    wsConn,
		router:  r,
		outChan: make(chan *RespBody, outQueueSize),
		done:    make(chan struct{}),
		log:     l,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (c *Conn) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Push 把消息放入发送队列；队列满时丢弃并记日志，不阻塞调用方。
func (c *Conn) Push(name string, data any) {
	c.send(&RespBody{Name: name, Msg: data})
}

func (c *Conn) send(body *RespBody) {
	select {
	case <-c.done:
	case c.outChan <- body:
	default:
		c.log.Warn("ws_conn out queue full, drop msg", zap.String("name", body.Name), zap.String("addr", c.Addr()))
	}
}

func (c *Conn) run() {
	go c.readMsgLoop()
	go c.writeMsgLoop()
}

func (c *Conn) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		c.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("ws_conn read msg", zap.Error(err))
			}
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			c.log.Warn("ws_conn unmarshal json error", zap.Error(err))
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			c.router.Dispatch(c.ctx, &WsMsgReq{Body: &reqBody, Conn: c}, &resp)
		}
		c.send(resp.Body)
	}
}

func (c *Conn) writeMsgLoop() {
	for {
		select {
		case msg := <-c.outChan:
			if err := c.write(msg); err != nil {
				c.log.Warn("ws_conn write error", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) write(body *RespBody) error {
	data, err := json.Marshal(body)
	if err != nil {
		c.log.Error("ws_conn marshal json error", zap.Error(err), zap.String("name", body.Name))
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
