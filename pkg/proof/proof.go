package proof

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

var (
	ErrNilRecord     = errors.New("task record is nil")
	ErrEncodeFailed  = errors.New("failed to encode task record")
	ErrDecodeFailed  = errors.New("failed to decode task payload")
	ErrUnexpectedArg = errors.New("unexpected argument in task payload")
)

// TaskArgs is the verifier's tuple layout: (string proofOfTask, bytes data,
// address performer, int32 taskDefinitionId). Order must not change.
var TaskArgs = abi.Arguments{
	{Name: "proofOfTask", Type: mustNewType("string")},
	{Name: "data", Type: mustNewType("bytes")},
	{Name: "performer", Type: mustNewType("address")},
	{Name: "taskDefinitionId", Type: mustNewType("int32")},
}

// EncodedTask is the canonical payload of a TaskRecord and its keccak256 hash.
type EncodedTask struct {
	Payload []byte
	Hash    common.Hash
}

func mustNewType(typeStr string) abi.Type {
	t, err := abi.NewType(typeStr, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Encode ABI-encodes the record. Equal records always produce identical bytes.
func Encode(record *types.TaskRecord) ([]byte, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	result := record.Result
	if result == nil {
		result = []byte{}
	}

	packed, err := TaskArgs.Pack(record.ProofOfTask, result, record.PerformerAddress, record.TaskDefinitionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return packed, nil
}

// Hash returns keccak256(payload).
func Hash(payload []byte) common.Hash {
	return crypto.Keccak256Hash(payload)
}

func EncodeAndHash(record *types.TaskRecord) (*EncodedTask, error) {
	payload, err := Encode(record)
	if err != nil {
		return nil, err
	}
	return &EncodedTask{
		Payload: payload,
		Hash:    Hash(payload),
	}, nil
}

// Decode reverses Encode. Used to inspect payloads produced elsewhere.
func Decode(payload []byte) (*types.TaskRecord, error) {
	values, err := TaskArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if len(values) != len(TaskArgs) {
		return nil, fmt.Errorf("%w: got %d values", ErrDecodeFailed, len(values))
	}

	proofOfTask, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: proofOfTask is %T", ErrUnexpectedArg, values[0])
	}
	result, ok := values[1].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: data is %T", ErrUnexpectedArg, values[1])
	}
	performer, ok := values[2].(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: performer is %T", ErrUnexpectedArg, values[2])
	}
	taskDefinitionID, ok := values[3].(int32)
	if !ok {
		return nil, fmt.Errorf("%w: taskDefinitionId is %T", ErrUnexpectedArg, values[3])
	}

	return &types.TaskRecord{
		ProofOfTask:      proofOfTask,
		Result:           result,
		PerformerAddress: performer,
		TaskDefinitionID: taskDefinitionID,
	}, nil
}
