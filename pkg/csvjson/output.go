package csvjson

import (
	"sync"

	"github.com/shapestone/shape-csvjson/internal/buffer"
)

// maxPooledCapacity keeps huge outputs from pinning memory in the pool.
const maxPooledCapacity = 1 << 20

// outputPool holds output buffers for ConvertText.
var outputPool = sync.Pool{
	New: func() interface{} {
		return buffer.New[byte](4 * outputMargin)
	},
}

func getOutputBuffer(size int) *buffer.Buffer[byte] {
	buf := outputPool.Get().(*buffer.Buffer[byte])
	buf.Reset()
	buf.Grow(size)
	return buf
}

func putOutputBuffer(buf *buffer.Buffer[byte]) {
	if buf.Cap() > maxPooledCapacity {
		return
	}
	buf.Reset()
	outputPool.Put(buf)
}

// Output is the text produced by ConvertText: a JSON document on success,
// a diagnostic message on failure. Its bytes live in a pooled buffer that
// goes back to the pool on Release.
type Output struct {
	buf  *buffer.Buffer[byte]
	data []byte
	ok   bool
}

// ConvertText converts input with default options and returns the JSON
// document or, on failure, the diagnostic text in the same Output.
//
// The bytes are not shrunk to their exact size; the buffer keeps its
// spare capacity so it can be reused from the pool after Release.
//
// The caller must call Release once it is done with the bytes:
//
//	out := csvjson.ConvertText(data)
//	defer out.Release()
//	w.Write(out.Bytes())
func ConvertText(input []byte) *Output {
	buf := getOutputBuffer(len(input) + outputMargin)
	out := &Output{buf: buf, ok: true}
	if err := convert(buf, input, DefaultOptions()); err != nil {
		buf.Reset()
		buf.PushMany([]byte(err.Error())...)
		out.ok = false
	}
	out.data = buf.Items()
	return out
}

// Bytes returns the output text. It returns nil after Release.
func (o *Output) Bytes() []byte {
	return o.data
}

// String returns the output text as a string.
func (o *Output) String() string {
	return string(o.data)
}

// OK reports whether the text is JSON rather than a diagnostic.
func (o *Output) OK() bool {
	return o.ok
}

// Release returns the backing buffer to the pool. The bytes previously
// returned by Bytes must not be used afterwards. Calling Release again is a
// no-op.
func (o *Output) Release() {
	if o.buf == nil {
		return
	}
	putOutputBuffer(o.buf)
	o.buf = nil
	o.data = nil
}
