package announcer

import (
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/txbuilder"
)

// Status is the outcome of a submission.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Result describes one announced transaction. Hash is what the listener
// reports once the transaction is confirmed.
type Result struct {
	Kind    txbuilder.Kind
	Hash    catapult.Hash
	Signer  catapult.PublicKey
	Payload string
	Status  Status

	// Message is the node's acknowledgement for accepted transactions.
	Message string

	// Err is the rejection cause.
	Err error
}

// RejectedError is returned under PolicyStrict when the node refuses a
// transaction.
type RejectedError struct {
	Kind txbuilder.Kind
	Hash catapult.Hash
	Err  error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s transaction %s rejected: %s", e.Kind, e.Hash, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}
