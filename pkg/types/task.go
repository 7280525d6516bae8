package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// PriceQuote is the oracle's answer for a symbol. Price is kept as the
// string the feed returned and is attested as is.
type PriceQuote struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// TaskRecord is the attested tuple, in encoding order.
type TaskRecord struct {
	ProofOfTask      string         `json:"proofOfTask"`
	Result           []byte         `json:"result"`
	PerformerAddress common.Address `json:"performerAddress"`
	TaskDefinitionID int32          `json:"taskDefinitionId"`
}

// SignedTask is a TaskRecord together with the hash of its encoding and the
// performer's signature over that hash.
type SignedTask struct {
	Record      TaskRecord  `json:"record"`
	MessageHash common.Hash `json:"messageHash"`
	Signature   []byte      `json:"signature"`
}

// ExecuteTaskRequest is the inbound body of an execution request.
type ExecuteTaskRequest struct {
	TaskDefinitionID *int32 `json:"taskDefinitionId"`
}

type ExecuteTaskResponse struct {
	Message          string `json:"message"`
	ProofOfTask      string `json:"proofOfTask,omitempty"`
	TaskDefinitionID int32  `json:"taskDefinitionId"`
	PerformerAddress string `json:"performerAddress,omitempty"`
	MessageHash      string `json:"messageHash,omitempty"`
	Signature        string `json:"signature,omitempty"`
	Result           any    `json:"result,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Performer string `json:"performer"`
}
