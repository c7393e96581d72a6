package pipeline

// Passthrough runs a sub-pipeline and yields the original input alongside
// the result, for downstream blocks that need both the raw and the
// processed data.
//
// With expansion enabled (the default behavior of NewPassthrough), a Group
// produced by the sub-pipeline is flattened so the output reads
// Group{input, out0, out1, ...}; otherwise the output is the pair
// Group{input, out}.
type Passthrough struct {
	*Pipeline
	expand bool
}

// NewPassthrough wraps the topology in a passthrough with expanded output.
func NewPassthrough(topo Topology, opts ...Option) (*Passthrough, error) {
	return newPassthrough(topo, true, opts...)
}

// NewPassthroughPair wraps the topology in a passthrough yielding the
// two-element Group{input, out} regardless of the output's shape.
func NewPassthroughPair(topo Topology, opts ...Option) (*Passthrough, error) {
	return newPassthrough(topo, false, opts...)
}

func newPassthrough(topo Topology, expand bool, opts ...Option) (*Passthrough, error) {
	withDefault := append([]Option{WithName("Passthrough")}, opts...)
	p, err := New(topo, withDefault...)
	if err != nil {
		return nil, err
	}
	return &Passthrough{Pipeline: p, expand: expand}, nil
}

// Process runs the sub-pipeline and prepends the untouched input.
func (p *Passthrough) Process(data Data) (Data, error) {
	out, err := p.Pipeline.Process(data)
	if err != nil {
		return nil, err
	}
	if p.expand {
		if group, ok := out.(Group); ok {
			result := make(Group, 0, len(group)+1)
			result = append(result, data)
			result = append(result, group...)
			return result, nil
		}
	}
	return Group{data, out}, nil
}
