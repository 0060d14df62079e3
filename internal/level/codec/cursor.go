package codec

import "encoding/binary"

var le = binary.LittleEndian

// Reader 顺序读取小端整数，越界时返回 ErrTruncated 且不移动 offset。
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Offset() int { return r.off }
func (r *Reader) Len() int    { return len(r.buf) }

// Remaining 返回从当前 offset 到末尾的切片（与底层缓冲区共享）。
func (r *Reader) Remaining() []byte { return r.buf[r.off:] }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, outOfBounds(r.off, n, len(r.buf))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Bytes 读取 n 个原始字节，返回与底层共享的切片。
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.take(n)
}

// Skip 跳过 n 个字节。
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Writer 追加小端整数，支持回填已写入的定长字段。
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Len() int { return len(w.buf) }

// Bytes 返回已写入的数据（与 Writer 共享）。
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Append(p []byte) {
	w.buf = append(w.buf, p...)
}

func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Int8(v int8) {
	w.Uint8(uint8(v))
}

func (w *Writer) Uint16(v uint16) {
	w.buf = le.AppendUint16(w.buf, v)
}

func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

func (w *Writer) Uint32(v uint32) {
	w.buf = le.AppendUint32(w.buf, v)
}

func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// PatchUint32At 覆盖 offset 处已经写入的 4 字节。
func (w *Writer) PatchUint32At(offset int, v uint32) error {
	if offset < 0 || offset > len(w.buf)-4 {
		return outOfBounds(offset, 4, len(w.buf))
	}
	le.PutUint32(w.buf[offset:], v)
	return nil
}

func (w *Writer) PatchInt32At(offset int, v int32) error {
	return w.PatchUint32At(offset, uint32(v))
}
