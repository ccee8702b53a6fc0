package signaling

// The relay forwards opaque handshake payloads to exactly one target
// connection, tagged with the sender so the target can reply. Delivery is
// best effort: an unknown target drops the message without telling the
// sender, since peers may vanish mid-negotiation.

func (h *Hub) relayOffer(c *Client, p *CallUserPayload) {
	caller := p.CallerID
	if caller == "" {
		caller = c.ID
	}
	h.relay(c, p.UserToSignal, &Message{
		Type:    TypeCallMade,
		Payload: CallMadePayload{Offer: p.Signal, Socket: caller},
	})
}

func (h *Hub) relayAnswer(c *Client, p *MakeAnswerPayload) {
	h.relay(c, p.To, &Message{
		Type:    TypeAnswerMade,
		Payload: AnswerMadePayload{Answer: p.Answer, Socket: c.ID},
	})
}

func (h *Hub) relayCandidate(c *Client, p *ICECandidatePayload) {
	h.relay(c, p.To, &Message{
		Type:    TypeICECandidate,
		Payload: CandidatePayload{Candidate: p.Candidate, Socket: c.ID},
	})
}

func (h *Hub) relay(from *Client, to string, msg *Message) {
	target, ok := h.clients.Get(to)
	if !ok {
		h.log.Debug("relay target gone", "type", msg.Type, "from", from.ID, "to", to)
		return
	}
	h.log.Debug("relaying signal", "type", msg.Type, "from", from.ID, "to", to)
	h.send(target, msg)
}
