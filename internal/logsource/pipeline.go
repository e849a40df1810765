package logsource

import (
	"context"

	"github.com/ccollicutt/correl8/pkg/events"
)

// Pipeline reads ParsedLines from a Source and tags them into events.Event
// values via a Tagger, skipping lines no tag pattern matches.
type Pipeline struct {
	source Source
	tagger *Tagger
}

// NewPipeline builds a Pipeline over source, tagging each line with tagger.
func NewPipeline(source Source, tagger *Tagger) *Pipeline {
	return &Pipeline{source: source, tagger: tagger}
}

// Next returns the next tagged event, skipping any line that matches no tag
// pattern. Returns io.EOF once source is exhausted.
func (p *Pipeline) Next(ctx context.Context) (events.Event, error) {
	for {
		line, err := p.source.Next(ctx)
		if err != nil {
			return nil, err
		}
		uuid, ok := p.tagger.Tag(line.Raw)
		if !ok {
			continue
		}
		return NewLogEvent(uuid, line), nil
	}
}

// Close releases the underlying source.
func (p *Pipeline) Close() error {
	return p.source.Close()
}
