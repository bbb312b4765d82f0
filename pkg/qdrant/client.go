// Package qdrant runs namespaced similarity searches against a Qdrant
// collection over gRPC.
package qdrant

import (
	"context"
	"crypto/tls"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/rotisserie/eris"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Payload keys written by the ingestion side.
const (
	PayloadText      = "text"
	PayloadSource    = "source"
	PayloadNamespace = "namespace"
)

// Point is one scored search hit.
type Point struct {
	Text   string
	Source string
	Score  float32
}

// Client defines the Qdrant operations used by the service.
type Client interface {
	Search(ctx context.Context, vector []float32, namespace string, limit int) ([]Point, error)
	Close() error
}

// Config holds connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
	TLS        bool
}

type grpcClient struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
	apiKey     string
}

// NewClient dials Qdrant's gRPC port. The connection is lazy; the first
// search reports an unreachable server.
func NewClient(cfg Config) (Client, error) {
	creds := insecure.NewCredentials()
	if cfg.TLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, eris.Wrap(err, "qdrant: dial")
	}

	return &grpcClient{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}, nil
}

// newWithPoints builds a client around an existing PointsClient.
func newWithPoints(points pb.PointsClient, collection string) *grpcClient {
	return &grpcClient{points: points, collection: collection}
}

func (c *grpcClient) Search(ctx context.Context, vector []float32, namespace string, limit int) ([]Point, error) {
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", c.apiKey)
	}

	req := &pb.SearchPoints{
		CollectionName: c.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		Filter:         namespaceFilter(namespace),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Include{
				Include: &pb.PayloadIncludeSelector{
					Fields: []string{PayloadText, PayloadSource},
				},
			},
		},
	}

	resp, err := c.points.Search(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "qdrant: search %s", c.collection)
	}

	out := make([]Point, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		pt := Point{Score: p.GetScore()}
		if v, ok := p.GetPayload()[PayloadText]; ok {
			pt.Text = v.GetStringValue()
		}
		if v, ok := p.GetPayload()[PayloadSource]; ok {
			pt.Source = v.GetStringValue()
		}
		out = append(out, pt)
	}
	return out, nil
}

func namespaceFilter(namespace string) *pb.Filter {
	if namespace == "" {
		return nil
	}
	return &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: PayloadNamespace,
					Match: &pb.Match{
						MatchValue: &pb.Match_Keyword{Keyword: namespace},
					},
				},
			},
		}},
	}
}

func (c *grpcClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
