package dialogue

import "github.com/bnema/practice-ledger/internal/application"

// Event is one inbound message from a transport. Command is set when the user
// sent a command; otherwise Text or Callback carries the answer to the
// current prompt.
type Event struct {
	UserID   string `json:"user_id"`
	Command  string `json:"command,omitempty"`
	Text     string `json:"text,omitempty"`
	Callback string `json:"callback,omitempty"`
}

func (e Event) input() string {
	if e.Callback != "" {
		return e.Callback
	}
	return e.Text
}

type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Chart carries the aggregated series; drawing it is up to the transport.
type Chart struct {
	Title  string                    `json:"title"`
	Points []application.SeriesPoint `json:"points"`
}

type Reply struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
	Chart   *Chart   `json:"chart,omitempty"`
	// Done is set when the conversation that produced the reply has ended.
	Done bool `json:"done"`
}
