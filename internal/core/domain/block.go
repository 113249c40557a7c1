package domain

// BlockSample is a block timestamp collected while sampling a window.
type BlockSample struct {
	Number    uint64 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
}

// SkipReason classifies why a block was left out of a window.
type SkipReason string

const (
	SkipReasonTransport    SkipReason = "transport"
	SkipReasonProtocol     SkipReason = "protocol"
	SkipReasonDecode       SkipReason = "decode"
	SkipReasonMissingField SkipReason = "missing_field"
	SkipReasonOther        SkipReason = "other"
)
