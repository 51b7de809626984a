package fsrpc

import (
	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName 是 gRPC content-subtype: application/grpc+cbor
const CodecName = "cbor"

// MaxMessageSize 单条消息的上限，文件内容整体放在一条消息里
const MaxMessageSize = 1024 * 1024 * 1024 // 1GB

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec 用 CBOR 编解码请求/响应
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

func (Codec) Name() string { return CodecName }
