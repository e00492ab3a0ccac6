package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/domain/repositories"
)

// Node is a distinct tag across the caller's recordings
type Node struct {
	Tag       string             `json:"tag"`
	Count     int                `json:"count"`
	Sentiment entities.Sentiment `json:"sentiment"`
	X         float64            `json:"x"`
	Y         float64            `json:"y"`
}

// Edge links two tags that co-occur on at least one recording
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Graph is the fully derived tag co-occurrence graph
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Service derives the tag co-occurrence graph from stored recordings.
// The graph is recomputed in full on each request; nothing is cached or
// incrementally maintained.
type Service struct {
	repo repositories.RecordingRepository
}

// NewService constructs a graph service
func NewService(repo repositories.RecordingRepository) *Service {
	return &Service{repo: repo}
}

// BuildGraph loads the caller's recordings and derives nodes and edges.
// Nodes are weighted by occurrence count and colored by the majority
// sentiment among recordings bearing the tag, ties broken by encounter
// order. Edge weight is the minimum of the two tags' global counts.
func (s *Service) BuildGraph(ctx context.Context, userID uuid.UUID) (*Graph, error) {
	recordings, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recordings: %w", err)
	}

	counts := make(map[string]int)
	sentiments := make(map[string]map[entities.Sentiment]int)
	order := make([]string, 0)
	// Sentiment encounter order per tag, for majority tie-breaking
	sentimentOrder := make(map[string][]entities.Sentiment)

	edgeWeights := make(map[[2]string]struct{})
	edgeOrder := make([][2]string, 0)

	for _, rec := range recordings {
		tags := dedupe(rec.Tags)
		for _, tag := range tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
				sentiments[tag] = make(map[entities.Sentiment]int)
			}
			counts[tag]++
			if _, seen := sentiments[tag][rec.Sentiment]; !seen {
				sentimentOrder[tag] = append(sentimentOrder[tag], rec.Sentiment)
			}
			sentiments[tag][rec.Sentiment]++
		}
		// Unordered pairs co-occurring on this recording
		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				key := pairKey(tags[i], tags[j])
				if _, seen := edgeWeights[key]; !seen {
					edgeWeights[key] = struct{}{}
					edgeOrder = append(edgeOrder, key)
				}
			}
		}
	}

	nodes := make([]Node, 0, len(order))
	radius := 100.0 + 20.0*float64(len(order))
	for i, tag := range order {
		angle := 2 * math.Pi * float64(i) / float64(len(order))
		nodes = append(nodes, Node{
			Tag:       tag,
			Count:     counts[tag],
			Sentiment: majoritySentiment(sentiments[tag], sentimentOrder[tag]),
			X:         radius * math.Cos(angle),
			Y:         radius * math.Sin(angle),
		})
	}

	edges := make([]Edge, 0, len(edgeOrder))
	for _, key := range edgeOrder {
		weight := counts[key[0]]
		if counts[key[1]] < weight {
			weight = counts[key[1]]
		}
		edges = append(edges, Edge{
			Source: key[0],
			Target: key[1],
			Weight: weight,
		})
	}

	return &Graph{Nodes: nodes, Edges: edges}, nil
}

// majoritySentiment picks the most frequent sentiment for a tag, with ties
// going to whichever sentiment was encountered first
func majoritySentiment(votes map[entities.Sentiment]int, encounterOrder []entities.Sentiment) entities.Sentiment {
	best := entities.SentimentNeutral
	bestVotes := -1
	for _, sentiment := range encounterOrder {
		if votes[sentiment] > bestVotes {
			best = sentiment
			bestVotes = votes[sentiment]
		}
	}
	return best
}

// pairKey orders a tag pair lexicographically so {a,b} and {b,a} collide
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// dedupe removes duplicate tags while preserving first-seen order
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
