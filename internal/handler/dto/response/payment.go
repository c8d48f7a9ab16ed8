package response

// CallbackAck is what gateways expect back; anything non-2xx triggers their retry.
type CallbackAck struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Replayed bool   `json:"replayed,omitempty"`
}

func NewCallbackAck(replayed bool) CallbackAck {
	return CallbackAck{Code: "00", Message: "ok", Replayed: replayed}
}
