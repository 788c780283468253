package entity

import (
	"bytes"
	"strconv"
)

// TransfersRequest is the JSON-RPC envelope for alchemy_getAssetTransfers.
type TransfersRequest struct {
	ID      int              `json:"id"`
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  []TransferFilter `json:"params"`
}

// TransferFilter is the single parameter object of alchemy_getAssetTransfers.
// Exactly one of FromAddress/ToAddress is set per query direction.
type TransferFilter struct {
	FromBlock        string   `json:"fromBlock"`
	ToBlock          string   `json:"toBlock"`
	FromAddress      string   `json:"fromAddress,omitempty"`
	ToAddress        string   `json:"toAddress,omitempty"`
	Category         []string `json:"category"`
	WithMetadata     bool     `json:"withMetadata"`
	MaxCount         string   `json:"maxCount"` // hex-encoded
	Order            string   `json:"order"`
	ExcludeZeroValue bool     `json:"excludeZeroValue"`
}

// TransfersResponse is the JSON-RPC response envelope. A populated Error is a
// protocol-level failure even when the HTTP status is 200.
type TransfersResponse struct {
	ID      int              `json:"id"`
	JSONRPC string           `json:"jsonrpc"`
	Result  *TransfersResult `json:"result,omitempty"`
	Error   *RPCError        `json:"error,omitempty"`
}

// RPCError is an error object embedded in a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TransfersResult holds the page of transfers returned by the upstream.
type TransfersResult struct {
	Transfers []AssetTransfer `json:"transfers"`
}

// AssetTransfer is one raw transfer record as returned by the upstream.
type AssetTransfer struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Value       RawValue          `json:"value,omitempty"`
	Hash        string            `json:"hash"`
	Asset       string            `json:"asset,omitempty"`
	Category    string            `json:"category,omitempty"`
	RawContract *RawContract      `json:"rawContract,omitempty"`
	Metadata    *TransferMetadata `json:"metadata,omitempty"`
}

// RawContract carries contract metadata for token transfers.
type RawContract struct {
	Address  string `json:"address,omitempty"`
	Decimals *int   `json:"decimals,omitempty"`
}

// TransferMetadata carries optional block metadata for a transfer.
type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp,omitempty"`
}

// RawValue is a transfer value that the upstream encodes either as a JSON
// string or as a JSON number. It is kept as its textual form and interpreted
// during normalization.
type RawValue string

// UnmarshalJSON accepts both string and numeric encodings.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(data)
	return nil
}

// MarshalJSON emits the value as a JSON string.
func (v RawValue) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(v))), nil
}
