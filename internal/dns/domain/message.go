package domain

// Flags holds the header bits of a DNS message other than the ID and section counts.
type Flags struct {
	Response           bool
	Opcode             Opcode
	Authoritative      bool
	Truncated          bool
	RecursionDesired   bool
	RecursionAvailable bool
	AuthenticData      bool
	CheckingDisabled   bool
	RCode              RCode
}

// Message is a decoded DNS message. Section counts are implied by slice lengths.
type Message struct {
	ID         uint16
	Flags      Flags
	Questions  []Question
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// IsQuery reports whether the message is a query (QR=0).
func (m Message) IsQuery() bool {
	return !m.Flags.Response
}

// NewReply builds an authoritative reply header for the query q: the ID and RD bit are
// copied, opcode is QUERY, and every section is empty.
func NewReply(q Message, rcode RCode) Message {
	return Message{
		ID: q.ID,
		Flags: Flags{
			Response:         true,
			Opcode:           OpcodeQuery,
			Authoritative:    true,
			RecursionDesired: q.Flags.RecursionDesired,
			RCode:            rcode,
		},
	}
}
