// Package accessor fetches decoded records from the external decoder service.
// The checker never parses raw save data itself; a decoder turns the bytes into
// a flat field map and this package converts that map into an entity.Record.
package accessor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region wire
const (
	// ServiceName is the fully qualified decoder service.
	ServiceName = "legality.decoder.v1.Decoder"
	// DecodeMethod is the full RPC path of Decode.
	DecodeMethod = "/" + ServiceName + "/Decode"
)

// #endregion wire

// #region client-struct

// DecoderClient wraps the gRPC connection to the decoder service.
type DecoderClient struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor

// NewDecoderClient connects to the decoder at addr.
func NewDecoderClient(addr string) (*DecoderClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &DecoderClient{conn: conn, cc: conn}, nil
}

// NewDecoderClientWithConn creates a DecoderClient over an existing connection.
// Used for testing without a real decoder.
func NewDecoderClientWithConn(cc grpc.ClientConnInterface) *DecoderClient {
	return &DecoderClient{cc: cc}
}

// Close shuts down the owned connection, if any.
func (c *DecoderClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region decode

// Decode sends raw record bytes to the decoder and converts the reply. ref is
// echoed into the record for reporting.
func (c *DecoderClient) Decode(ctx context.Context, data []byte, ref string) (entity.Record, error) {
	req, err := structpb.NewStruct(map[string]any{
		"data": base64.StdEncoding.EncodeToString(data),
		"ref":  ref,
	})
	if err != nil {
		return entity.Record{}, fmt.Errorf("decode request: %w", err)
	}
	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, DecodeMethod, req, resp); err != nil {
		return entity.Record{}, fmt.Errorf("decode rpc: %w", err)
	}
	rec, err := FromStruct(resp)
	if err != nil {
		return entity.Record{}, err
	}
	if rec.Ref == "" {
		rec.Ref = ref
	}
	return rec, nil
}

// FromStruct converts a decoder reply into a Record. Field names follow the
// Record JSON tags.
func FromStruct(s *structpb.Struct) (entity.Record, error) {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return entity.Record{}, fmt.Errorf("decode reply: %w", err)
	}
	var rec entity.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.Record{}, fmt.Errorf("decode reply: %w", err)
	}
	return rec, nil
}

// #endregion decode
