package entity

// MaxFeedItems bounds the activity feed and each upstream transfer page.
const MaxFeedItems = 10

// Direction indicates whether the queried wallet was the sender or the
// recipient of a transfer.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// ConfirmationStatus of an activity record. The transfer upstream only
// returns mined transfers, so everything it yields is reported as confirmed.
type ConfirmationStatus string

const (
	StatusConfirmed ConfirmationStatus = "confirmed"
)

// ActivityRecord is one normalized, price-annotated row of a wallet's
// activity feed. TxHash is the unique key within a feed.
type ActivityRecord struct {
	TxHash    string             `json:"txHash"`
	Timestamp string             `json:"timestamp"` // ISO-8601, empty if upstream omitted it
	Direction Direction          `json:"direction"`
	Amount    float64            `json:"amount"`
	Symbol    string             `json:"symbol"`
	USDValue  *float64           `json:"usdValue,omitempty"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Status    ConfirmationStatus `json:"status"`
	Chain     Chain              `json:"chain"`
}
