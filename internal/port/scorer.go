package port

import "context"

// ScoreInput is the abstract document submitted for a patentability estimate.
type ScoreInput struct {
	ApplicationNo string
	Title         string
	FileName      string
	ContentType   string
	Content       []byte
}

// LikelihoodScorer estimates how likely an invention is to be granted, as a
// percentage in [0, 100].
type LikelihoodScorer interface {
	Score(ctx context.Context, input ScoreInput) (float64, error)
}
