package rpc

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/bitstream"
	"github.com/RowanDark/cribdrag/internal/crib"
	"github.com/RowanDark/cribdrag/internal/logging"
)

// Options configures a Server.
type Options struct {
	Engine       crib.Config
	MaxPositions int
	ReadableOnly bool
	Audit        *logging.AuditLogger
	Logger       *slog.Logger
}

// Server implements CribServiceServer on top of a crib engine.
type Server struct {
	engine       *crib.Engine
	table        *baudot.Table
	maxPositions int
	readableOnly bool
	audit        *logging.AuditLogger
	logger       *slog.Logger
}

// NewServer creates a service. Unset logging sinks default to JSON on stdout
// and a discarding audit trail.
func NewServer(opts Options) *Server {
	table := opts.Engine.Table
	if table == nil {
		table = baudot.Default
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	audit := opts.Audit
	if audit == nil {
		audit = logging.Discard()
	}
	return &Server{
		engine:       crib.NewEngine(opts.Engine),
		table:        table,
		maxPositions: opts.MaxPositions,
		readableOnly: opts.ReadableOnly,
		audit:        audit.WithComponent("rpc"),
		logger:       logger,
	}
}

// NewGRPCServer builds a grpc.Server with the auth interceptor installed and
// svc registered.
func NewGRPCServer(svc *Server, authToken string, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(UnaryAuthInterceptor(authToken, svc.audit, svc.logger)))
	srv := grpc.NewServer(opts...)
	RegisterCribServiceServer(srv, svc)
	return srv
}

func (s *Server) ComputeXorStream(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req XorStreamRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, s.invalid(MethodComputeXorStream, err)
	}

	stream, chunks, err := bitstream.ComputeXorStream(req.C1, req.C2)
	if err != nil {
		return nil, s.invalid(MethodComputeXorStream, err)
	}

	resp := XorStreamResponse{Stream: stream, Chunks: chunks}
	if text, err := s.table.DecodeBits(stream); err == nil {
		resp.Decoded = text
	}

	s.emit(logging.AuditEvent{
		EventType: logging.EventStreamComputed,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"bits": len(stream), "codes": len(chunks)},
	})
	return toStruct(resp)
}

func (s *Server) DragCrib(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DragRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, s.invalid(MethodDragCrib, err)
	}
	if strings.TrimSpace(req.Crib) == "" {
		return nil, s.invalid(MethodDragCrib, errors.New("crib is required"))
	}
	if err := checkStream(req.Stream); err != nil {
		return nil, s.invalid(MethodDragCrib, err)
	}
	if req.MaxPositions < 0 {
		return nil, s.invalid(MethodDragCrib, errors.New("max_positions must not be negative"))
	}

	maxPositions := req.MaxPositions
	if maxPositions == 0 {
		maxPositions = s.maxPositions
	}

	searchID := uuid.NewString()
	matches, err := s.engine.Drag(ctx, req.Stream, req.Crib, crib.WithMaxPositions(maxPositions))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, status.FromContextError(ctxErr).Err()
		}
		return nil, s.invalid(MethodDragCrib, err)
	}

	readable := crib.Readable(matches)
	resp := DragResponse{SearchID: searchID, Positions: len(matches), Matches: matches}
	if req.ReadableOnly || s.readableOnly {
		resp.Matches = readable
	}

	s.emit(logging.AuditEvent{
		EventType: logging.EventCribDragged,
		SearchID:  searchID,
		Decision:  logging.DecisionInfo,
		Metadata: map[string]any{
			"crib":           req.Crib,
			"positions":      len(matches),
			"readable_count": len(readable),
		},
	})
	return toStruct(resp)
}

func (s *Server) Decode(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DecodeRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, s.invalid(MethodDecode, err)
	}
	if err := checkStream(req.Bits); err != nil {
		return nil, s.invalid(MethodDecode, err)
	}
	text, err := s.table.DecodeBits(req.Bits)
	if err != nil {
		return nil, s.invalid(MethodDecode, err)
	}
	return toStruct(DecodeResponse{Text: text})
}

// invalid records and wraps a request the service cannot process.
func (s *Server) invalid(method string, err error) error {
	s.logger.Warn("rejected request", "method", method, "error", err)
	s.emit(logging.AuditEvent{
		EventType: logging.EventInvalidInput,
		Decision:  logging.DecisionDeny,
		Reason:    err.Error(),
		Metadata:  map[string]any{"method": method},
	})
	return status.Error(codes.InvalidArgument, err.Error())
}

func (s *Server) emit(event logging.AuditEvent) {
	if err := s.audit.Emit(event); err != nil {
		s.logger.Error("failed to emit audit event", "event_type", event.EventType, "error", err)
	}
}

func checkStream(bits string) error {
	if bits == "" {
		return &bitstream.InvalidInputError{Input: bits, Reason: "empty bit string"}
	}
	for i, r := range bits {
		if r != '0' && r != '1' {
			return &bitstream.InvalidInputError{Input: bits, Reason: "non-binary character", Position: i, Char: r}
		}
	}
	return nil
}
