package reactor

// demultiplexer wraps the reactor's input channel with the two-phase Exit
// semantics spec §4.I requires: the first ExitRequest observed is returned
// normally (so the reactor can respond and keep draining in-flight work);
// the second causes select to report done, since both the producer and the
// tick emitter may each send their own Exit in either order.
type demultiplexer struct {
	in    <-chan Request
	stops int
}

func newDemultiplexer(in <-chan Request) *demultiplexer {
	return &demultiplexer{in: in}
}

// selectNext returns the next request and true, or (nil, false) once a
// second ExitRequest has been observed.
func (d *demultiplexer) selectNext() (Request, bool) {
	req, ok := <-d.in
	if !ok {
		return nil, false
	}

	if _, isExit := req.(ExitRequest); isExit {
		if d.stops >= 1 {
			return nil, false
		}
		d.stops++
		return req, true
	}

	return req, true
}
