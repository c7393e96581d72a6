package pipeline

import "fmt"

// Pipeline processes data through a fixed arrangement of blocks. It is
// itself a Block, so pipelines nest inside other pipelines.
//
// The topology is immutable after construction; to change the structure,
// build a new Pipeline. Processing is synchronous and single-threaded:
// one chunk at a time, parallel members evaluated sequentially in
// declared order.
type Pipeline struct {
	meta
	topo  Topology
	named map[string]Block
}

// New builds a pipeline from a topology. Every reachable block is recorded
// under its name; a duplicate name within one pipeline is a configuration
// error.
func New(topo Topology, opts ...Option) (*Pipeline, error) {
	cfg := applyOptions("Pipeline", opts...)
	p := &Pipeline{
		meta:  newMeta(cfg),
		topo:  topo,
		named: make(map[string]Block),
	}
	if err := p.collect(topo); err != nil {
		return nil, err
	}
	return p, nil
}

// collect fills the name lookup by pre-order traversal of the topology.
func (p *Pipeline) collect(t Topology) error {
	switch t.kind {
	case leafNode:
		if t.block == nil {
			return fmt.Errorf("%w: leaf without a block", ErrConfig)
		}
		name := t.block.Name()
		if _, ok := p.named[name]; ok {
			return fmt.Errorf("%w: duplicate block name %q", ErrConfig, name)
		}
		p.named[name] = t.block
		return nil
	case seriesNode, parallelNode:
		if len(t.children) == 0 {
			return fmt.Errorf("%w: empty series/parallel group", ErrConfig)
		}
		for _, child := range t.children {
			if err := p.collect(child); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: unknown topology node", ErrConfig)
}

// Process runs one chunk through the block graph and returns the final
// output: a single buffer, or a Group if the last stage is parallel.
// A member error aborts processing and propagates unmodified.
func (p *Pipeline) Process(data Data) (Data, error) {
	return p.run(p.topo, data)
}

func (p *Pipeline) run(t Topology, data Data) (Data, error) {
	switch t.kind {
	case leafNode:
		out, err := t.block.Process(data)
		if err != nil {
			return nil, err
		}
		for _, hook := range t.block.Hooks() {
			hook(out)
		}
		return out, nil
	case seriesNode:
		out := data
		var err error
		for _, child := range t.children {
			out, err = p.run(child, out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case parallelNode:
		group := make(Group, 0, len(t.children))
		for _, child := range t.children {
			out, err := p.run(child, data)
			if err != nil {
				return nil, err
			}
			group = append(group, out)
		}
		return group, nil
	}
	return nil, fmt.Errorf("%w: unknown topology node", ErrConfig)
}

// Clear resets every reachable block, in the same traversal order as
// Process. Cleared stateful blocks behave as freshly constructed.
func (p *Pipeline) Clear() {
	p.clear(p.topo)
}

func (p *Pipeline) clear(t Topology) {
	if t.kind == leafNode {
		t.block.Clear()
		return
	}
	for _, child := range t.children {
		p.clear(child)
	}
}

// Block returns the block registered under name.
func (p *Pipeline) Block(name string) (Block, bool) {
	b, ok := p.named[name]
	return b, ok
}

// NamedBlocks returns the name lookup for every block in the pipeline.
// The returned map is shared; callers must not modify it.
func (p *Pipeline) NamedBlocks() map[string]Block {
	return p.named
}
