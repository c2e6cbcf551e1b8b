package main

import (
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

// watchChunkBytes bounds one log snapshot message, well below the default
// 4 MiB gRPC message limit.
const watchChunkBytes = 1 << 20

func (s *ServerLauncherServiceServer) Watch(request *protov1.WatchRequest, streaming grpc.ServerStreamingServer[protov1.WatchEvent]) error {
	if request.Id != "" {
		if _, err := s.registry.Get(request.Id); err != nil {
			return toStatusError(err, "watch")
		}
	}

	// Subscribe before taking the snapshot. A chunk may show up twice but is
	// never lost.
	events, unsubscribe, err := s.registry.Subscribe()
	if err != nil {
		return status.Errorf(codes.Unavailable, "error subscribing to events: %v", err)
	}
	defer unsubscribe()

	if request.IncludeLog && request.Id != "" {
		lines, err := s.registry.LogLines(request.Id)
		if err != nil {
			return toStatusError(err, "watch")
		}
		for _, text := range logChunks(lines, watchChunkBytes) {
			if err := streaming.Send(&protov1.WatchEvent{Id: request.Id, Type: protov1.EventTypeOutput, Text: text}); err != nil {
				return err
			}
		}
	}

	ctx := streaming.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if request.Id != "" && ev.ID != request.Id {
				continue
			}
			if err := streaming.Send(toProtoEvent(ev)); err != nil {
				return err
			}
		}
	}
}

// logChunks joins whole lines into chunks of at most limit bytes. A single
// line longer than limit gets a chunk of its own.
func logChunks(lines []string, limit int) []string {
	var (
		chunks []string
		b      strings.Builder
	)
	for _, line := range lines {
		if b.Len() > 0 && b.Len()+len(line) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
