package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote CribService.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

// Dial connects to target without TLS. Extra options are appended after the
// defaults.
func Dial(target, token string, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", target, err)
	}
	return &Client{conn: conn, token: token}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ComputeXorStream(ctx context.Context, c1, c2 string) (XorStreamResponse, error) {
	var resp XorStreamResponse
	err := c.invoke(ctx, MethodComputeXorStream, XorStreamRequest{C1: c1, C2: c2}, &resp)
	return resp, err
}

func (c *Client) DragCrib(ctx context.Context, req DragRequest) (DragResponse, error) {
	var resp DragResponse
	err := c.invoke(ctx, MethodDragCrib, req, &resp)
	return resp, err
}

func (c *Client) Decode(ctx context.Context, bits string) (string, error) {
	var resp DecodeResponse
	if err := c.invoke(ctx, MethodDecode, DecodeRequest{Bits: bits}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, authorizationKey, bearerPrefix+c.token)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return err
	}
	if err := fromStruct(out, resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
