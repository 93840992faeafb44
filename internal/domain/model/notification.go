package model

// NotificationRequest is the payload of one trigger-gateway call. It lives
// for the duration of the request only.
type NotificationRequest struct {
	Phone   string   `json:"phone"`
	OrderID string   `json:"order_id"`
	Items   []string `json:"items"`
}

// DeliveryStatus is the tri-state outcome of a single dispatch attempt.
type DeliveryStatus int

const (
	StatusDelivered DeliveryStatus = iota
	StatusRecipientUnknown
	StatusTransportFailed
)

// DeliveryResult carries the status plus the transport-supplied failure
// reason. Reason is for operator logs only and must never be returned
// verbatim to external callers.
type DeliveryResult struct {
	Status DeliveryStatus
	Reason string
}

// BroadcastReport aggregates a fan-out. Sent+Failed always equals the number
// of directory entries at the start of the broadcast.
type BroadcastReport struct {
	Sent   int
	Failed int
}
