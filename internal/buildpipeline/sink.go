package buildpipeline

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

func sinkOrNop(s ProgressSink) ProgressSink {
	if s == nil {
		return NopSink{}
	}
	return s
}

// MultiSink fans every event out to each of its sinks in order.
type MultiSink []ProgressSink

func (s MultiSink) OnEvent(evt Event) {
	for _, sink := range s {
		if sink != nil {
			sink.OnEvent(evt)
		}
	}
}
